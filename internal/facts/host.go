package facts

import (
	"log/slog"
	"runtime"
)

// HostOptions points the host sources at the filesystem roots they read.
type HostOptions struct {
	ProcRoot          string
	SysRoot           string
	DevRoot           string
	StorageRoot       string
	ExternalRoots     []string
	WirelessInterface string
}

func DefaultHostOptions() HostOptions {
	return HostOptions{
		ProcRoot:          "/proc",
		SysRoot:           "/sys",
		DevRoot:           "/dev",
		StorageRoot:       "/",
		ExternalRoots:     []string{"/media", "/run/media", "/mnt", "/Volumes"},
		WirelessInterface: "wlan0",
	}
}

// NewHostSources wires the platform data sources for this machine.
func NewHostSources(opts HostOptions, log *slog.Logger) Sources {
	log = discardIfNil(log)
	fs := sysfs{sysRoot: opts.SysRoot, procRoot: opts.ProcRoot}
	ifaces := gopsutilInterfaces{}

	src := Sources{
		Identity:          dmiIdentity{fs: fs},
		OS:                hostOS{fs: fs, osRelease: "/etc/os-release"},
		CPU:               hostCPU{fs: fs},
		Memory:            hostMemory{},
		Storage:           hostStorage{root: opts.StorageRoot, externalRoots: opts.ExternalRoots},
		Power:             sysfsPower{fs: fs},
		Display:           drmDisplay{fs: fs},
		Interfaces:        ifaces,
		Signal:            procWireless{fs: fs},
		Sensors:           sensorSet{iioSensors{fs: fs}, thermalSensors{}},
		Cameras:           cameraSource(fs, opts.DevRoot),
		Clock:             hostClock{},
		Locale:            envLocale{localtime: "/etc/localtime"},
		WirelessInterface: opts.WirelessInterface,
		Connectivity: fallbackConnectivity{
			primary:   networkManager{},
			secondary: sysfsConnectivity{fs: fs, ifaces: ifaces},
			log:       log,
		},
	}

	if runtime.GOOS == "darwin" {
		src.Power = pmsetPower{}
		src.Display = profilerDisplay{}
	}
	return src
}
