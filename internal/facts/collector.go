package facts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultProbeTimeout = 3 * time.Second

// Sources wires host data sources into the ten probes. Nil sources are
// treated as unavailable.
type Sources struct {
	Identity     IdentitySource
	OS           OSSource
	CPU          CPUSource
	Memory       MemorySource
	Storage      StorageSource
	Power        PowerSource
	Display      DisplaySource
	Connectivity ConnectivitySource
	Interfaces   InterfaceSource
	Signal       SignalSource
	Sensors      SensorSource
	Cameras      CameraSource
	Clock        ClockSource
	Locale       LocaleSource

	// WirelessInterface names the interface whose hardware address is reported.
	WirelessInterface string
}

type Option func(*Collector)

func WithLogger(log *slog.Logger) Option {
	return func(c *Collector) { c.log = discardIfNil(log) }
}

func WithProbeTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// Collector is the snapshot aggregator. It keeps no state between calls, so
// Collect and Refresh are interchangeable and safe for concurrent use.
type Collector struct {
	sources Sources
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

func NewCollector(sources Sources, opts ...Option) *Collector {
	c := &Collector{
		sources: sources,
		timeout: DefaultProbeTimeout,
		now:     time.Now,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect runs all ten probes concurrently and waits for every one of them.
// A probe that panics or exceeds the probe timeout contributes its
// all-sentinel facet instead. Collect never fails.
func (c *Collector) Collect(ctx context.Context) Snapshot {
	start := c.now()
	src := c.sources

	var (
		g errgroup.Group

		overview Overview
		osInfo   OSInfo
		hardware Hardware
		memory   Memory
		power    Power
		display  Display
		network  Network
		sensors  Sensors
		cameras  Cameras
		system   System
	)

	// Helper to launch one probe; errors never escape runProbe.
	collect := func(fn func()) {
		g.Go(func() error {
			fn()
			return nil
		})
	}

	collect(func() {
		overview = runProbe(ctx, c, "overview", NewOverviewProbe(src.Identity, c.log).Run, UnknownOverview)
	})
	collect(func() {
		osInfo = runProbe(ctx, c, "os", NewOSProbe(src.OS, c.log).Run, UnknownOSInfo)
	})
	collect(func() {
		hardware = runProbe(ctx, c, "hardware", NewHardwareProbe(src.CPU, c.log).Run, UnknownHardware)
	})
	collect(func() {
		memory = runProbe(ctx, c, "memory", NewMemoryProbe(src.Memory, src.Storage, c.log).Run, UnknownMemory)
	})
	collect(func() {
		power = runProbe(ctx, c, "power", NewPowerProbe(src.Power, c.log).Run, UnknownPower)
	})
	collect(func() {
		display = runProbe(ctx, c, "display", NewDisplayProbe(src.Display, c.log).Run, UnknownDisplay)
	})
	collect(func() {
		probe := NewNetworkProbe(src.Connectivity, src.Interfaces, src.Signal, src.WirelessInterface, c.log)
		network = runProbe(ctx, c, "network", probe.Run, UnknownNetwork)
	})
	collect(func() {
		sensors = runProbe(ctx, c, "sensors", NewSensorProbe(src.Sensors, c.log).Run, UnknownSensors)
	})
	collect(func() {
		cameras = runProbe(ctx, c, "cameras", NewCameraProbe(src.Cameras, c.log).Run, UnknownCameras)
	})
	collect(func() {
		system = runProbe(ctx, c, "system", NewSystemProbe(src.Clock, src.Locale, c.log).Run, UnknownSystem)
	})

	_ = g.Wait()

	c.log.Debug("snapshot collected", "elapsed", c.now().Sub(start))
	return Snapshot{
		CollectedAt: start,
		Overview:    overview,
		OS:          osInfo,
		Hardware:    hardware,
		Memory:      memory,
		Power:       power,
		Display:     display,
		Network:     network,
		Sensors:     sensors,
		Cameras:     cameras,
		System:      system,
	}
}

// Refresh re-queries every source; there is nothing cached to invalidate.
func (c *Collector) Refresh(ctx context.Context) Snapshot {
	return c.Collect(ctx)
}

// runProbe bounds one probe by the collector's timeout and converts a panic
// or timeout into the facet's sentinel value. A probe that ignores ctx keeps
// running in the background but its result is discarded.
func runProbe[T any](ctx context.Context, c *Collector, name string, run func(context.Context) T, fallback func() T) T {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("probe panicked: %v", r)}
			}
		}()
		done <- result{value: run(ctx)}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			c.log.Warn("probe failed", "probe", name, "err", res.err)
			return fallback()
		}
		return res.value
	case <-ctx.Done():
		c.log.Warn("probe timed out", "probe", name, "timeout", c.timeout, "err", ctx.Err())
		return fallback()
	}
}
