package facts

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

type SystemProbe struct {
	clock  ClockSource
	locale LocaleSource
	log    *slog.Logger
}

func NewSystemProbe(clock ClockSource, locale LocaleSource, log *slog.Logger) *SystemProbe {
	return &SystemProbe{clock: clock, locale: locale, log: discardIfNil(log)}
}

func (p *SystemProbe) Run(ctx context.Context) System {
	out := UnknownSystem()
	out.RuntimeVersion = runtime.Version()
	out.RuntimeName = fmt.Sprintf("%s %s/%s", runtime.Compiler, runtime.GOOS, runtime.GOARCH)

	if p.clock != nil {
		if secs, err := p.clock.Uptime(ctx); err != nil {
			p.log.Debug("uptime unavailable", "err", err)
		} else {
			out.Uptime = FormatUptime(secs)
		}
		if boot, err := p.clock.BootTime(ctx); err != nil || boot == 0 {
			p.log.Debug("boot time unavailable", "err", err)
		} else {
			out.BootedAt = time.Unix(int64(boot), 0)
			out.BootTime = FormatBootTime(out.BootedAt)
		}
		if avg, err := p.clock.Load(ctx); err != nil {
			p.log.Debug("load average unavailable", "err", err)
		} else {
			out.LoadAverage = fmt.Sprintf("%.2f, %.2f, %.2f", avg.Load1, avg.Load5, avg.Load15)
		}
		if procs, err := p.clock.Processes(ctx); err != nil {
			p.log.Debug("process count unavailable", "err", err)
		} else {
			out.Processes = int(procs)
		}
	}

	if p.locale != nil {
		if tz, err := p.locale.Timezone(ctx); err == nil {
			out.Timezone = orUnknown(tz)
		}
		if loc, err := p.locale.Locale(ctx); err == nil {
			out.Locale = orUnknown(loc)
		}
	}
	return out
}
