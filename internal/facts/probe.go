package facts

import (
	"context"
	"log/slog"
	"strings"
)

// Every probe's Run is total: source failures become field sentinels and are
// logged at debug level, never returned.

func discardIfNil(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}

type OverviewProbe struct {
	src IdentitySource
	log *slog.Logger
}

func NewOverviewProbe(src IdentitySource, log *slog.Logger) *OverviewProbe {
	return &OverviewProbe{src: src, log: discardIfNil(log)}
}

func (p *OverviewProbe) Run(ctx context.Context) Overview {
	out := UnknownOverview()
	if p.src == nil {
		return out
	}
	id, err := p.src.Identity(ctx)
	if err != nil {
		p.log.Debug("identity unavailable", "err", err)
		return out
	}
	out.Manufacturer = orUnknown(id.Vendor)
	out.Model = orUnknown(id.Product)
	out.Brand = orUnknown(id.BoardVendor)
	out.Board = orUnknown(id.BoardName)
	out.Bootloader = orUnknown(id.FirmwareVersion)
	out.Device = orUnknown(id.Hostname)
	out.Product = orUnknown(id.Family)
	out.Hardware = DecodeChassis(id.ChassisType)
	return out
}

type OSProbe struct {
	src OSSource
	log *slog.Logger
}

func NewOSProbe(src OSSource, log *slog.Logger) *OSProbe {
	return &OSProbe{src: src, log: discardIfNil(log)}
}

func (p *OSProbe) Run(ctx context.Context) OSInfo {
	out := UnknownOSInfo()
	if p.src == nil {
		return out
	}
	rel, err := p.src.OSRelease(ctx)
	if err != nil {
		p.log.Debug("os release unavailable", "err", err)
		return out
	}
	out.Name = orUnknown(rel.Name)
	out.Version = orUnknown(rel.Version)
	out.Family = orUnknown(rel.Family)
	out.BuildID = orUnknown(rel.BuildID)
	out.KernelVersion = orUnknown(rel.KernelVersion)
	out.KernelArch = orUnknown(rel.KernelArch)
	out.Virtualization = orUnknown(rel.Virtualization)

	user, host, date := parseKernelBanner(rel.KernelBanner)
	out.BuildUser = orUnknown(user)
	out.BuildHost = orUnknown(host)
	out.BuildDate = orUnknown(date)
	return out
}

var weekdays = map[string]bool{
	"Mon": true, "Tue": true, "Wed": true, "Thu": true, "Fri": true, "Sat": true, "Sun": true,
}

// parseKernelBanner pulls the builder and build date out of a banner such as
// "Linux version 6.8.0-45-generic (buildd@lcy02-amd64-075) (gcc ...) #45-Ubuntu SMP Fri Aug 30 12:02:04 UTC 2024".
func parseKernelBanner(banner string) (user, host, date string) {
	rest := banner
	for {
		open := strings.Index(rest, "(")
		if open < 0 {
			break
		}
		end := strings.Index(rest[open:], ")")
		if end < 0 {
			break
		}
		group := rest[open+1 : open+end]
		if u, h, ok := strings.Cut(group, "@"); ok && !strings.ContainsAny(group, " ") {
			user, host = u, h
			break
		}
		rest = rest[open+end+1:]
	}

	fields := strings.Fields(banner)
	if len(fields) >= 6 && weekdays[fields[len(fields)-6]] {
		date = strings.Join(fields[len(fields)-6:], " ")
	}
	return user, host, date
}
