package facts

import "context"

// Each probe depends on one or more of these narrow read-only sources. A source
// returns an error when the platform cannot supply the value; blank strings and
// negative numbers inside a returned struct mark individual fields it could not read.

type Identity struct {
	Vendor          string
	Product         string
	Family          string
	BoardVendor     string
	BoardName       string
	FirmwareVersion string
	Hostname        string
	ChassisType     int // SMBIOS chassis code, -1 when unreadable
}

type IdentitySource interface {
	Identity(ctx context.Context) (Identity, error)
}

type OSRelease struct {
	Name           string
	Version        string
	Family         string
	BuildID        string
	KernelVersion  string
	KernelArch     string
	KernelBanner   string // Contents of /proc/version or equivalent
	Virtualization string
}

type OSSource interface {
	OSRelease(ctx context.Context) (OSRelease, error)
}

type CPUDetails struct {
	Arch      string
	ModelName string
	VendorID  string
	CacheSize int // KB
	Flags     []string
}

type CPUSource interface {
	CPUDetails(ctx context.Context) (CPUDetails, error)
	Counts(ctx context.Context, logical bool) (int, error)
	// MaxFrequency returns the raw kernel file content, in kHz.
	MaxFrequency(ctx context.Context) (string, error)
}

type MemoryStats struct {
	Total     uint64
	Available uint64
}

type SwapStats struct {
	Total uint64
	Used  uint64
}

type MemorySource interface {
	VirtualMemory(ctx context.Context) (MemoryStats, error)
	Swap(ctx context.Context) (SwapStats, error)
}

type StorageSource interface {
	Internal(ctx context.Context) (StorageTotals, error)
	ExternalMounted(ctx context.Context) (bool, error)
	External(ctx context.Context) (StorageTotals, error)
}

// BatteryReading carries raw power-supply values. Level and Scale are counters
// in the same unit (charge, energy or percent with scale 100); -1 when missing.
type BatteryReading struct {
	Level           int64
	Scale           int64
	Status          string // Kernel power_supply status string
	Health          string // Kernel power_supply health string
	Plug            string // Type of the online supply: Mains, USB, Wireless, or empty
	TemperatureDeci *int   // Tenths of °C
	VoltageMicro    int64  // µV, -1 when missing
	Technology      string
	CycleCount      int
	FullCapacity    int64
	DesignCapacity  int64
}

type PowerSource interface {
	Battery(ctx context.Context) (BatteryReading, error)
}

type DisplayMetrics struct {
	WidthPx   int
	HeightPx  int
	DPI       int     // 0 when the physical size is unknown
	RefreshHz float64 // 0 when unknown
	Connector string
}

type DisplaySource interface {
	Display(ctx context.Context) (DisplayMetrics, error)
}

type Transport int

const (
	TransportWiFi Transport = iota + 1
	TransportCellular
	TransportEthernet
)

type Connectivity struct {
	WiFiEnabled bool
	Active      []Transport // Every transport reported up, in any order
	SSID        string
	IPv4        uint32 // Packed low-byte-first, 0 when unknown
}

type ConnectivitySource interface {
	Connectivity(ctx context.Context) (Connectivity, error)
}

type NetInterface struct {
	Name         string
	HardwareAddr []byte
	Addrs        []string
}

type InterfaceSource interface {
	Interfaces(ctx context.Context) ([]NetInterface, error)
}

type SignalSource interface {
	SignalDBm(ctx context.Context, iface string) (int, error)
}

type SensorReading struct {
	Name       string
	Kind       string // Channel kind such as accel, anglvel, illuminance, temp
	Vendor     string
	Resolution float64
	MaxRange   float64
}

type SensorSource interface {
	Sensors(ctx context.Context) ([]SensorReading, error)
}

type Facing int

const (
	FacingFront Facing = iota
	FacingBack
	FacingExternal
	FacingUnknown Facing = -1
)

type CameraDevice struct {
	ID     string
	Name   string
	Facing Facing
}

type CameraSource interface {
	Cameras(ctx context.Context) ([]CameraDevice, error)
}

type FrameSize struct {
	Width  int
	Height int
}

// FrameSizeSource is the extended capability query. Camera sources that
// implement it let the probe report resolutions.
type FrameSizeSource interface {
	FrameSizes(ctx context.Context, id string) ([]FrameSize, error)
}

type LoadAverage struct {
	Load1, Load5, Load15 float64
}

type ClockSource interface {
	Uptime(ctx context.Context) (uint64, error)
	BootTime(ctx context.Context) (uint64, error)
	Load(ctx context.Context) (LoadAverage, error)
	Processes(ctx context.Context) (uint64, error)
}

type LocaleSource interface {
	Timezone(ctx context.Context) (string, error)
	Locale(ctx context.Context) (string, error)
}
