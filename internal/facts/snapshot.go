package facts

import "time"

// Unknown is the string sentinel for a field whose source could not supply a value.
const Unknown = "Unknown"

// Snapshot is one complete aggregation of all ten facets. It is built once per
// Collect and never modified afterwards; callers must treat its slices as read-only.
type Snapshot struct {
	CollectedAt time.Time `json:"collected_at" yaml:"collected_at"`

	Overview Overview `json:"overview" yaml:"overview"`
	OS       OSInfo   `json:"os" yaml:"os"`
	Hardware Hardware `json:"hardware" yaml:"hardware"`
	Memory   Memory   `json:"memory" yaml:"memory"`
	Power    Power    `json:"power" yaml:"power"`
	Display  Display  `json:"display" yaml:"display"`
	Network  Network  `json:"network" yaml:"network"`
	Sensors  Sensors  `json:"sensors" yaml:"sensors"`
	Cameras  Cameras  `json:"cameras" yaml:"cameras"`
	System   System   `json:"system" yaml:"system"`
}

type Overview struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
	Brand        string `json:"brand" yaml:"brand"`
	Board        string `json:"board" yaml:"board"`
	Bootloader   string `json:"bootloader" yaml:"bootloader"`
	Device       string `json:"device" yaml:"device"`
	Product      string `json:"product" yaml:"product"`
	Hardware     string `json:"hardware" yaml:"hardware"` // Decoded chassis type
}

type OSInfo struct {
	Name           string `json:"name" yaml:"name"`
	Version        string `json:"version" yaml:"version"`
	Family         string `json:"family" yaml:"family"`
	BuildID        string `json:"build_id" yaml:"build_id"`
	KernelVersion  string `json:"kernel_version" yaml:"kernel_version"`
	KernelArch     string `json:"kernel_arch" yaml:"kernel_arch"`
	BuildDate      string `json:"build_date" yaml:"build_date"`
	BuildUser      string `json:"build_user" yaml:"build_user"`
	BuildHost      string `json:"build_host" yaml:"build_host"`
	Virtualization string `json:"virtualization" yaml:"virtualization"`
}

type Hardware struct {
	Architecture  string   `json:"architecture" yaml:"architecture"`
	CPUModel      string   `json:"cpu_model" yaml:"cpu_model"`
	Cores         int      `json:"cores" yaml:"cores"`                   // -1 when unknown
	PhysicalCores int      `json:"physical_cores" yaml:"physical_cores"` // -1 when unknown
	Frequency     string   `json:"frequency" yaml:"frequency"`           // "N MHz" or Unknown
	CacheSize     string   `json:"cache_size" yaml:"cache_size"`
	Extensions    []string `json:"extensions" yaml:"extensions"`
}

// StorageTotals is the byte pair reported for one volume.
type StorageTotals struct {
	Total     int64 `json:"total" yaml:"total"`
	Available int64 `json:"available" yaml:"available"`
}

// Used returns Total minus Available, or -1 when either side is unknown.
func (s StorageTotals) Used() int64 {
	if s.Total < 0 || s.Available < 0 {
		return -1
	}
	return s.Total - s.Available
}

// Memory holds byte counts; -1 marks a count that could not be read.
type Memory struct {
	TotalRAM     int64 `json:"total_ram" yaml:"total_ram"`
	AvailableRAM int64 `json:"available_ram" yaml:"available_ram"`
	UsedRAM      int64 `json:"used_ram" yaml:"used_ram"`
	SwapTotal    int64 `json:"swap_total" yaml:"swap_total"`
	SwapUsed     int64 `json:"swap_used" yaml:"swap_used"`

	TotalInternal     int64 `json:"total_internal" yaml:"total_internal"`
	AvailableInternal int64 `json:"available_internal" yaml:"available_internal"`
	UsedInternal      int64 `json:"used_internal" yaml:"used_internal"`

	HasExternal bool `json:"has_external" yaml:"has_external"`
	// External is set only when both totals were read.
	External *StorageTotals `json:"external,omitempty" yaml:"external,omitempty"`
}

type Power struct {
	Level       int      `json:"level" yaml:"level"` // percent, -1 when unavailable
	Status      string   `json:"status" yaml:"status"`
	Health      string   `json:"health" yaml:"health"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"` // °C, nil renders Unknown
	Voltage     int      `json:"voltage" yaml:"voltage"`                               // mV, -1 when unavailable
	Technology  string   `json:"technology" yaml:"technology"`
	Charging    bool     `json:"charging" yaml:"charging"`
	Source      string   `json:"source" yaml:"source"`
	CycleCount  int      `json:"cycle_count" yaml:"cycle_count"`
	Capacity    int      `json:"capacity" yaml:"capacity"` // full/design percent
}

type Display struct {
	Width        int     `json:"width" yaml:"width"`
	Height       int     `json:"height" yaml:"height"`
	Resolution   string  `json:"resolution" yaml:"resolution"`
	Density      int     `json:"density" yaml:"density"` // dpi, -1 when unknown
	DensityClass string  `json:"density_class" yaml:"density_class"`
	RefreshRate  float64 `json:"refresh_rate" yaml:"refresh_rate"` // Hz, -1 when unknown
	Size         string  `json:"size" yaml:"size"`
	Orientation  string  `json:"orientation" yaml:"orientation"`
	Connector    string  `json:"connector" yaml:"connector"`
}

// Network optional fields are nil when the platform could not or would not say.
type Network struct {
	WiFiEnabled   bool    `json:"wifi_enabled" yaml:"wifi_enabled"`
	WiFiConnected bool    `json:"wifi_connected" yaml:"wifi_connected"`
	SSID          *string `json:"ssid,omitempty" yaml:"ssid,omitempty"`
	IPAddress     *string `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	MACAddress    *string `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	Type          string  `json:"type" yaml:"type"`
	Signal        *int    `json:"signal,omitempty" yaml:"signal,omitempty"` // dBm
}

type Sensor struct {
	Name       string  `json:"name" yaml:"name"`
	Type       string  `json:"type" yaml:"type"`
	Vendor     string  `json:"vendor" yaml:"vendor"`
	Resolution float64 `json:"resolution" yaml:"resolution"`
	MaxRange   float64 `json:"max_range" yaml:"max_range"`
}

type Sensors struct {
	Sensors []Sensor `json:"sensors" yaml:"sensors"`
}

// CameraResolution is only present when the extended capability query ran.
type CameraResolution struct {
	Megapixels string   `json:"megapixels" yaml:"megapixels"`
	Sizes      []string `json:"sizes" yaml:"sizes"`
}

type Camera struct {
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"name" yaml:"name"`
	Facing     string            `json:"facing" yaml:"facing"`
	Resolution *CameraResolution `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

type Cameras struct {
	Cameras []Camera `json:"cameras" yaml:"cameras"`
}

type System struct {
	Uptime         string    `json:"uptime" yaml:"uptime"`
	BootTime       string    `json:"boot_time" yaml:"boot_time"`
	BootedAt       time.Time `json:"booted_at" yaml:"booted_at"` // zero when unknown
	Timezone       string    `json:"timezone" yaml:"timezone"`
	Locale         string    `json:"locale" yaml:"locale"`
	RuntimeVersion string    `json:"runtime_version" yaml:"runtime_version"`
	RuntimeName    string    `json:"runtime_name" yaml:"runtime_name"`
	LoadAverage    string    `json:"load_average" yaml:"load_average"`
	Processes      int       `json:"processes" yaml:"processes"`
}

func UnknownOverview() Overview {
	return Overview{
		Manufacturer: Unknown,
		Model:        Unknown,
		Brand:        Unknown,
		Board:        Unknown,
		Bootloader:   Unknown,
		Device:       Unknown,
		Product:      Unknown,
		Hardware:     Unknown,
	}
}

func UnknownOSInfo() OSInfo {
	return OSInfo{
		Name:           Unknown,
		Version:        Unknown,
		Family:         Unknown,
		BuildID:        Unknown,
		KernelVersion:  Unknown,
		KernelArch:     Unknown,
		BuildDate:      Unknown,
		BuildUser:      Unknown,
		BuildHost:      Unknown,
		Virtualization: Unknown,
	}
}

func UnknownHardware() Hardware {
	return Hardware{
		Architecture:  Unknown,
		CPUModel:      Unknown,
		Cores:         -1,
		PhysicalCores: -1,
		Frequency:     Unknown,
		CacheSize:     Unknown,
		Extensions:    []string{},
	}
}

func UnknownMemory() Memory {
	return Memory{
		TotalRAM:          -1,
		AvailableRAM:      -1,
		UsedRAM:           -1,
		SwapTotal:         -1,
		SwapUsed:          -1,
		TotalInternal:     -1,
		AvailableInternal: -1,
		UsedInternal:      -1,
	}
}

func UnknownPower() Power {
	return Power{
		Level:      -1,
		Status:     Unknown,
		Health:     Unknown,
		Voltage:    -1,
		Technology: Unknown,
		Source:     Unknown,
		CycleCount: -1,
		Capacity:   -1,
	}
}

func UnknownDisplay() Display {
	return Display{
		Width:        -1,
		Height:       -1,
		Resolution:   Unknown,
		Density:      -1,
		DensityClass: Unknown,
		RefreshRate:  -1,
		Size:         Unknown,
		Orientation:  Unknown,
		Connector:    Unknown,
	}
}

func UnknownNetwork() Network {
	return Network{Type: Unknown}
}

func UnknownSensors() Sensors {
	return Sensors{Sensors: []Sensor{}}
}

func UnknownCameras() Cameras {
	return Cameras{Cameras: []Camera{}}
}

func UnknownSystem() System {
	return System{
		Uptime:         Unknown,
		BootTime:       Unknown,
		Timezone:       Unknown,
		Locale:         Unknown,
		RuntimeVersion: Unknown,
		RuntimeName:    Unknown,
		LoadAverage:    Unknown,
		Processes:      -1,
	}
}

// UnknownSnapshot returns a snapshot whose every facet is sentinel-filled.
func UnknownSnapshot(at time.Time) Snapshot {
	return Snapshot{
		CollectedAt: at,
		Overview:    UnknownOverview(),
		OS:          UnknownOSInfo(),
		Hardware:    UnknownHardware(),
		Memory:      UnknownMemory(),
		Power:       UnknownPower(),
		Display:     UnknownDisplay(),
		Network:     UnknownNetwork(),
		Sensors:     UnknownSensors(),
		Cameras:     UnknownCameras(),
		System:      UnknownSystem(),
	}
}

// orUnknown substitutes the string sentinel for blank source values.
func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
