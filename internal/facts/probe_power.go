package facts

import (
	"context"
	"log/slog"
)

type PowerProbe struct {
	src PowerSource
	log *slog.Logger
}

func NewPowerProbe(src PowerSource, log *slog.Logger) *PowerProbe {
	return &PowerProbe{src: src, log: discardIfNil(log)}
}

func (p *PowerProbe) Run(ctx context.Context) Power {
	out := UnknownPower()
	if p.src == nil {
		return out
	}
	r, err := p.src.Battery(ctx)
	if err != nil {
		p.log.Debug("battery unavailable", "err", err)
		return out
	}

	out.Level = BatteryPercent(r.Level, r.Scale)
	out.Status = DecodeBatteryStatus(r.Status)
	out.Health = DecodeBatteryHealth(r.Health)
	out.Source = DecodePlugSource(r.Plug)
	out.Charging = out.Status == "Charging" || out.Status == "Full"
	out.Technology = orUnknown(r.Technology)

	if r.TemperatureDeci != nil {
		celsius := float64(*r.TemperatureDeci) / 10
		out.Temperature = &celsius
	}
	if r.VoltageMicro > 0 {
		out.Voltage = int(r.VoltageMicro / 1000)
	}
	if r.CycleCount >= 0 {
		out.CycleCount = r.CycleCount
	}
	out.Capacity = BatteryPercent(r.FullCapacity, r.DesignCapacity)
	return out
}
