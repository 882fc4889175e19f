package facts

import (
	"context"
	"fmt"
	"log/slog"
)

// Instruction-set extensions worth listing; cpuinfo carries far more flags.
var notableExtensions = map[string]bool{
	"sse4_2":  true,
	"avx":     true,
	"avx2":    true,
	"avx512f": true,
	"aes":     true,
	"sha_ni":  true,
	"fma":     true,
	"bmi2":    true,
	"asimd":   true,
	"pmull":   true,
	"sha2":    true,
	"crc32":   true,
	"atomics": true,
	"sve":     true,
	"sve2":    true,
}

type HardwareProbe struct {
	src CPUSource
	log *slog.Logger
}

func NewHardwareProbe(src CPUSource, log *slog.Logger) *HardwareProbe {
	return &HardwareProbe{src: src, log: discardIfNil(log)}
}

func (p *HardwareProbe) Run(ctx context.Context) Hardware {
	out := UnknownHardware()
	if p.src == nil {
		return out
	}

	if details, err := p.src.CPUDetails(ctx); err != nil {
		p.log.Debug("cpu details unavailable", "err", err)
	} else {
		out.Architecture = orUnknown(details.Arch)
		out.CPUModel = orUnknown(details.ModelName)
		if details.CacheSize > 0 {
			out.CacheSize = fmt.Sprintf("%d KB", details.CacheSize)
		}
		for _, flag := range details.Flags {
			if notableExtensions[flag] {
				out.Extensions = append(out.Extensions, flag)
			}
		}
	}

	if n, err := p.src.Counts(ctx, true); err == nil && n > 0 {
		out.Cores = n
	} else if err != nil {
		p.log.Debug("logical cpu count unavailable", "err", err)
	}
	if n, err := p.src.Counts(ctx, false); err == nil && n > 0 {
		out.PhysicalCores = n
	} else if err != nil {
		p.log.Debug("physical cpu count unavailable", "err", err)
	}

	raw, err := p.src.MaxFrequency(ctx)
	if err != nil {
		p.log.Debug("cpu frequency unavailable", "err", err)
	} else {
		out.Frequency = FormatFrequencyKHz(raw)
	}
	return out
}
