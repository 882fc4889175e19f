package facts

import (
	"context"
	"log/slog"
)

type MemoryProbe struct {
	mem     MemorySource
	storage StorageSource
	log     *slog.Logger
}

func NewMemoryProbe(mem MemorySource, storage StorageSource, log *slog.Logger) *MemoryProbe {
	return &MemoryProbe{mem: mem, storage: storage, log: discardIfNil(log)}
}

func (p *MemoryProbe) Run(ctx context.Context) Memory {
	out := UnknownMemory()

	if p.mem != nil {
		if vm, err := p.mem.VirtualMemory(ctx); err != nil {
			p.log.Debug("virtual memory unavailable", "err", err)
		} else {
			ram := StorageTotals{Total: int64(vm.Total), Available: int64(vm.Available)}
			out.TotalRAM, out.AvailableRAM, out.UsedRAM = ram.Total, ram.Available, ram.Used()
		}
		if swap, err := p.mem.Swap(ctx); err != nil {
			p.log.Debug("swap unavailable", "err", err)
		} else {
			out.SwapTotal, out.SwapUsed = int64(swap.Total), int64(swap.Used)
		}
	}

	if p.storage == nil {
		return out
	}
	if internal, err := p.storage.Internal(ctx); err != nil {
		p.log.Debug("internal storage unavailable", "err", err)
	} else {
		out.TotalInternal, out.AvailableInternal, out.UsedInternal = internal.Total, internal.Available, internal.Used()
	}

	mounted, err := p.storage.ExternalMounted(ctx)
	if err != nil {
		p.log.Debug("external storage state unavailable", "err", err)
		return out
	}
	out.HasExternal = mounted
	if !mounted {
		return out
	}
	ext, err := p.storage.External(ctx)
	if err != nil {
		p.log.Debug("external storage unreadable", "err", err)
		return out
	}
	if ext.Total >= 0 && ext.Available >= 0 {
		out.External = &ext
	}
	return out
}
