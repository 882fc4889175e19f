package facts

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/sensors"
)

type hostOS struct {
	fs        sysfs
	osRelease string
}

func (h hostOS) OSRelease(ctx context.Context) (OSRelease, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return OSRelease{}, fmt.Errorf("host info: %w", err)
	}
	rel := OSRelease{
		Name:           info.Platform,
		Version:        info.PlatformVersion,
		Family:         info.PlatformFamily,
		KernelVersion:  info.KernelVersion,
		KernelArch:     info.KernelArch,
		KernelBanner:   readSysfsString(h.fs.proc("version")),
		Virtualization: "None",
	}
	if info.VirtualizationSystem != "" {
		rel.Virtualization = info.VirtualizationSystem
		if info.VirtualizationRole != "" {
			rel.Virtualization += " (" + info.VirtualizationRole + ")"
		}
	}

	if data, err := os.ReadFile(h.osRelease); err == nil {
		applyOSRelease(&rel, parseOSRelease(string(data)))
	}
	return rel, nil
}

func applyOSRelease(rel *OSRelease, kv map[string]string) {
	if v := kv["PRETTY_NAME"]; v != "" {
		rel.Name = v
	} else if v := kv["NAME"]; v != "" {
		rel.Name = v
	}
	if v := kv["BUILD_ID"]; v != "" {
		rel.BuildID = v
	} else if v := kv["VERSION_CODENAME"]; v != "" {
		rel.BuildID = v
	}
}

// parseOSRelease reads the KEY=value lines of an os-release file. Values may
// be single- or double-quoted.
func parseOSRelease(data string) map[string]string {
	kv := make(map[string]string)
	for line := range strings.Lines(data) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
			v = v[1 : len(v)-1]
		}
		kv[k] = v
	}
	return kv
}

type hostCPU struct {
	fs sysfs
}

func (h hostCPU) CPUDetails(ctx context.Context) (CPUDetails, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return CPUDetails{}, fmt.Errorf("cpu info: %w", err)
	}
	if len(infos) == 0 {
		return CPUDetails{}, errors.New("no cpu info")
	}
	arch, err := host.KernelArch()
	if err != nil || arch == "" {
		arch = runtime.GOARCH
	}
	first := infos[0]
	return CPUDetails{
		Arch:      arch,
		ModelName: first.ModelName,
		VendorID:  first.VendorID,
		CacheSize: int(first.CacheSize),
		Flags:     first.Flags,
	}, nil
}

func (h hostCPU) Counts(ctx context.Context, logical bool) (int, error) {
	return cpu.CountsWithContext(ctx, logical)
}

func (h hostCPU) MaxFrequency(ctx context.Context) (string, error) {
	data, err := os.ReadFile(h.fs.sys("devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type hostMemory struct{}

func (hostMemory) VirtualMemory(ctx context.Context) (MemoryStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, err
	}
	return MemoryStats{Total: vm.Total, Available: vm.Available}, nil
}

func (hostMemory) Swap(ctx context.Context) (SwapStats, error) {
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return SwapStats{}, err
	}
	return SwapStats{Total: sw.Total, Used: sw.Used}, nil
}

// hostStorage measures the volume holding root as internal storage and the
// first partition mounted under one of externalRoots as external storage.
type hostStorage struct {
	root          string
	externalRoots []string
}

func (h hostStorage) Internal(ctx context.Context) (StorageTotals, error) {
	usage, err := disk.UsageWithContext(ctx, h.root)
	if err != nil {
		return StorageTotals{}, fmt.Errorf("usage of %s: %w", h.root, err)
	}
	return StorageTotals{Total: int64(usage.Total), Available: int64(usage.Free)}, nil
}

func (h hostStorage) ExternalMounted(ctx context.Context) (bool, error) {
	mount, err := h.externalMount(ctx)
	if err != nil {
		return false, err
	}
	return mount != "", nil
}

func (h hostStorage) External(ctx context.Context) (StorageTotals, error) {
	mount, err := h.externalMount(ctx)
	if err != nil {
		return StorageTotals{}, err
	}
	if mount == "" {
		return StorageTotals{}, errors.New("no external volume mounted")
	}
	usage, err := disk.UsageWithContext(ctx, mount)
	if err != nil {
		return StorageTotals{}, fmt.Errorf("usage of %s: %w", mount, err)
	}
	return StorageTotals{Total: int64(usage.Total), Available: int64(usage.Free)}, nil
}

func (h hostStorage) externalMount(ctx context.Context) (string, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return "", fmt.Errorf("list partitions: %w", err)
	}
	mounts := make([]string, 0, len(partitions))
	for _, p := range partitions {
		if strings.HasPrefix(p.Device, "/dev/loop") || p.Fstype == "squashfs" {
			continue
		}
		mounts = append(mounts, p.Mountpoint)
	}
	return pickExternalMount(mounts, h.externalRoots), nil
}

// pickExternalMount returns the first mount point strictly below one of roots.
func pickExternalMount(mounts, roots []string) string {
	for _, m := range mounts {
		for _, root := range roots {
			root = strings.TrimSuffix(root, "/")
			if root != "" && strings.HasPrefix(m, root+"/") {
				return m
			}
		}
	}
	return ""
}

type gopsutilInterfaces struct{}

func (gopsutilInterfaces) Interfaces(ctx context.Context) ([]NetInterface, error) {
	list, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]NetInterface, 0, len(list))
	for _, iface := range list {
		ni := NetInterface{Name: iface.Name}
		if hw, err := net.ParseMAC(iface.HardwareAddr); err == nil {
			ni.HardwareAddr = hw
		}
		for _, a := range iface.Addrs {
			ni.Addrs = append(ni.Addrs, a.Addr)
		}
		out = append(out, ni)
	}
	return out, nil
}

// thermalSensors lists the hwmon and thermal-zone readings gopsutil exposes.
type thermalSensors struct{}

func (thermalSensors) Sensors(ctx context.Context) ([]SensorReading, error) {
	temps, err := sensors.TemperaturesWithContext(ctx)
	if err != nil && len(temps) == 0 {
		return nil, err
	}
	out := make([]SensorReading, 0, len(temps))
	for _, t := range temps {
		vendor, _, _ := strings.Cut(t.SensorKey, "_")
		r := SensorReading{Name: t.SensorKey, Kind: "temp", Vendor: vendor, MaxRange: t.Critical}
		if r.MaxRange == 0 {
			r.MaxRange = t.High
		}
		out = append(out, r)
	}
	return out, nil
}

// sensorSet concatenates sources; it fails only when every source fails.
type sensorSet []SensorSource

func (s sensorSet) Sensors(ctx context.Context) ([]SensorReading, error) {
	var (
		out  []SensorReading
		errs []error
	)
	for _, src := range s {
		list, err := src.Sensors(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, list...)
	}
	if len(errs) == len(s) && len(s) > 0 {
		return nil, errors.Join(errs...)
	}
	if out == nil {
		out = []SensorReading{}
	}
	return out, nil
}

type hostClock struct{}

func (hostClock) Uptime(ctx context.Context) (uint64, error) {
	return host.UptimeWithContext(ctx)
}

func (hostClock) BootTime(ctx context.Context) (uint64, error) {
	return host.BootTimeWithContext(ctx)
}

func (hostClock) Load(ctx context.Context) (LoadAverage, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadAverage{}, err
	}
	return LoadAverage{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

func (hostClock) Processes(ctx context.Context) (uint64, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return info.Procs, nil
}

// envLocale reads the POSIX locale variables and the zoneinfo link.
type envLocale struct {
	getenv    func(string) string
	localtime string
}

func (e envLocale) env(key string) string {
	if e.getenv != nil {
		return e.getenv(key)
	}
	return os.Getenv(key)
}

func (e envLocale) Timezone(ctx context.Context) (string, error) {
	if tz := strings.TrimPrefix(e.env("TZ"), ":"); tz != "" {
		return tz, nil
	}
	if e.localtime != "" {
		if target, err := os.Readlink(e.localtime); err == nil {
			if _, name, ok := strings.Cut(target, "zoneinfo/"); ok {
				return name, nil
			}
		}
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name, nil
	}
	name, _ := time.Now().Zone()
	return name, nil
}

// Locale returns the effective messages locale without its encoding suffix,
// e.g. en_US for en_US.UTF-8.
func (e envLocale) Locale(ctx context.Context) (string, error) {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := e.env(key)
		if v == "" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		v, _, _ = strings.Cut(v, "@")
		return v, nil
	}
	return "", errors.New("no locale set in environment")
}
