package facts

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
)

var errUnavailable = errors.New("unavailable")

// failingSource implements every source interface and fails every call.
type failingSource struct{}

func (failingSource) Identity(context.Context) (Identity, error) { return Identity{}, errUnavailable }
func (failingSource) OSRelease(context.Context) (OSRelease, error) { return OSRelease{}, errUnavailable }
func (failingSource) CPUDetails(context.Context) (CPUDetails, error) { return CPUDetails{}, errUnavailable }
func (failingSource) Counts(context.Context, bool) (int, error) { return 0, errUnavailable }
func (failingSource) MaxFrequency(context.Context) (string, error) { return "", errUnavailable }
func (failingSource) VirtualMemory(context.Context) (MemoryStats, error) {
	return MemoryStats{}, errUnavailable
}
func (failingSource) Swap(context.Context) (SwapStats, error) { return SwapStats{}, errUnavailable }
func (failingSource) Internal(context.Context) (StorageTotals, error) { return StorageTotals{}, errUnavailable }
func (failingSource) ExternalMounted(context.Context) (bool, error) { return false, errUnavailable }
func (failingSource) External(context.Context) (StorageTotals, error) { return StorageTotals{}, errUnavailable }
func (failingSource) Battery(context.Context) (BatteryReading, error) { return BatteryReading{}, errUnavailable }
func (failingSource) Display(context.Context) (DisplayMetrics, error) { return DisplayMetrics{}, errUnavailable }
func (failingSource) Connectivity(context.Context) (Connectivity, error) { return Connectivity{}, errUnavailable }
func (failingSource) Interfaces(context.Context) ([]NetInterface, error) { return nil, errUnavailable }
func (failingSource) SignalDBm(context.Context, string) (int, error) { return 0, errUnavailable }
func (failingSource) Sensors(context.Context) ([]SensorReading, error) { return nil, errUnavailable }
func (failingSource) Cameras(context.Context) ([]CameraDevice, error) { return nil, errUnavailable }
func (failingSource) Uptime(context.Context) (uint64, error) { return 0, errUnavailable }
func (failingSource) BootTime(context.Context) (uint64, error) { return 0, errUnavailable }
func (failingSource) Load(context.Context) (LoadAverage, error) { return LoadAverage{}, errUnavailable }
func (failingSource) Processes(context.Context) (uint64, error) { return 0, errUnavailable }
func (failingSource) Timezone(context.Context) (string, error) { return "", errUnavailable }
func (failingSource) Locale(context.Context) (string, error) { return "", errUnavailable }

func failingSources() Sources {
	f := failingSource{}
	return Sources{
		Identity: f, OS: f, CPU: f, Memory: f, Storage: f, Power: f, Display: f,
		Connectivity: f, Interfaces: f, Signal: f, Sensors: f, Cameras: f,
		Clock: f, Locale: f, WirelessInterface: "wlan0",
	}
}

type fakeCPU struct {
	details  CPUDetails
	logical  int
	physical int
	freq     string
	freqErr  error
}

func (f fakeCPU) CPUDetails(context.Context) (CPUDetails, error) { return f.details, nil }
func (f fakeCPU) Counts(_ context.Context, logical bool) (int, error) {
	if logical {
		return f.logical, nil
	}
	return f.physical, nil
}
func (f fakeCPU) MaxFrequency(context.Context) (string, error) { return f.freq, f.freqErr }

type fakeStorage struct {
	internal    StorageTotals
	mounted     bool
	mountErr    error
	external    StorageTotals
	externalErr error
}

func (f fakeStorage) Internal(context.Context) (StorageTotals, error) { return f.internal, nil }
func (f fakeStorage) ExternalMounted(context.Context) (bool, error) { return f.mounted, f.mountErr }
func (f fakeStorage) External(context.Context) (StorageTotals, error) {
	return f.external, f.externalErr
}

type fakeMemory struct{}

func (fakeMemory) VirtualMemory(context.Context) (MemoryStats, error) {
	return MemoryStats{Total: 16 << 30, Available: 6 << 30}, nil
}
func (fakeMemory) Swap(context.Context) (SwapStats, error) {
	return SwapStats{Total: 2 << 30, Used: 1 << 30}, nil
}

type fakeBattery BatteryReading

func (f fakeBattery) Battery(context.Context) (BatteryReading, error) { return BatteryReading(f), nil }

type fakeDisplay DisplayMetrics

func (f fakeDisplay) Display(context.Context) (DisplayMetrics, error) { return DisplayMetrics(f), nil }

type fakeConnectivity Connectivity

func (f fakeConnectivity) Connectivity(context.Context) (Connectivity, error) {
	return Connectivity(f), nil
}

type fakeInterfaces []NetInterface

func (f fakeInterfaces) Interfaces(context.Context) ([]NetInterface, error) { return f, nil }

type fakeSignal int

func (f fakeSignal) SignalDBm(context.Context, string) (int, error) { return int(f), nil }

type fakeCameras []CameraDevice

func (f fakeCameras) Cameras(context.Context) ([]CameraDevice, error) { return f, nil }

type fakeSizedCameras struct {
	fakeCameras
	sizes map[string][]FrameSize
}

func (f fakeSizedCameras) FrameSizes(_ context.Context, id string) ([]FrameSize, error) {
	sizes, ok := f.sizes[id]
	if !ok {
		return nil, errUnavailable
	}
	return sizes, nil
}

func intPtr(v int) *int { return &v }

func TestProbesWithFailingSourcesYieldSentinels(t *testing.T) {
	ctx := context.Background()
	f := failingSource{}

	if got := NewOverviewProbe(f, nil).Run(ctx); !reflect.DeepEqual(got, UnknownOverview()) {
		t.Errorf("OverviewProbe.Run() = %+v, want sentinel facet", got)
	}
	if got := NewOSProbe(f, nil).Run(ctx); !reflect.DeepEqual(got, UnknownOSInfo()) {
		t.Errorf("OSProbe.Run() = %+v, want sentinel facet", got)
	}
	if got := NewHardwareProbe(f, nil).Run(ctx); !reflect.DeepEqual(got, UnknownHardware()) {
		t.Errorf("HardwareProbe.Run() = %+v, want sentinel facet", got)
	}
	if got := NewMemoryProbe(f, f, nil).Run(ctx); !reflect.DeepEqual(got, UnknownMemory()) {
		t.Errorf("MemoryProbe.Run() = %+v, want sentinel facet", got)
	}
	if got := NewPowerProbe(f, nil).Run(ctx); !reflect.DeepEqual(got, UnknownPower()) {
		t.Errorf("PowerProbe.Run() = %+v, want sentinel facet", got)
	}
	if got := NewDisplayProbe(f, nil).Run(ctx); !reflect.DeepEqual(got, UnknownDisplay()) {
		t.Errorf("DisplayProbe.Run() = %+v, want sentinel facet", got)
	}
	if got := NewNetworkProbe(f, f, f, "wlan0", nil).Run(ctx); !reflect.DeepEqual(got, UnknownNetwork()) {
		t.Errorf("NetworkProbe.Run() = %+v, want sentinel facet", got)
	}
	if got := NewSensorProbe(f, nil).Run(ctx); !reflect.DeepEqual(got, UnknownSensors()) {
		t.Errorf("SensorProbe.Run() = %+v, want sentinel facet", got)
	}
	if got := NewCameraProbe(f, nil).Run(ctx); !reflect.DeepEqual(got, UnknownCameras()) {
		t.Errorf("CameraProbe.Run() = %+v, want sentinel facet", got)
	}

	sys := NewSystemProbe(f, f, nil).Run(ctx)
	if sys.Uptime != Unknown || sys.BootTime != Unknown || sys.Processes != -1 || sys.Timezone != Unknown {
		t.Errorf("SystemProbe.Run() = %+v, want clock and locale sentinels", sys)
	}
	if sys.RuntimeVersion == "" || sys.RuntimeVersion == Unknown {
		t.Errorf("SystemProbe.Run().RuntimeVersion = %q, want runtime version", sys.RuntimeVersion)
	}
}

func TestProbesWithNilSourcesYieldSentinels(t *testing.T) {
	ctx := context.Background()
	if got := NewPowerProbe(nil, nil).Run(ctx); !reflect.DeepEqual(got, UnknownPower()) {
		t.Errorf("PowerProbe(nil).Run() = %+v, want sentinel facet", got)
	}
	if got := NewNetworkProbe(nil, nil, nil, "", nil).Run(ctx); !reflect.DeepEqual(got, UnknownNetwork()) {
		t.Errorf("NetworkProbe(nil).Run() = %+v, want sentinel facet", got)
	}
	if got := NewCameraProbe(nil, nil).Run(ctx); len(got.Cameras) != 0 || got.Cameras == nil {
		t.Errorf("CameraProbe(nil).Run().Cameras = %#v, want empty list", got.Cameras)
	}
}

func TestHardwareProbe(t *testing.T) {
	tests := []struct {
		name     string
		cpu      fakeCPU
		wantFreq string
	}{
		{"readable frequency", fakeCPU{freq: "3600000\n"}, "3600 MHz"},
		{"non-numeric frequency", fakeCPU{freq: "<unknown>"}, Unknown},
		{"unreadable frequency", fakeCPU{freqErr: errUnavailable}, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cpu.details = CPUDetails{
				Arch:      "x86_64",
				ModelName: "AMD Ryzen 7 7840U",
				CacheSize: 1024,
				Flags:     []string{"fpu", "sse4_2", "avx", "avx2", "aes"},
			}
			tt.cpu.logical, tt.cpu.physical = 16, 8

			got := NewHardwareProbe(tt.cpu, nil).Run(context.Background())
			if got.Frequency != tt.wantFreq {
				t.Errorf("Frequency = %q, want %q", got.Frequency, tt.wantFreq)
			}
			if got.CPUModel != "AMD Ryzen 7 7840U" || got.Architecture != "x86_64" {
				t.Errorf("CPUModel/Architecture = %q/%q, want details preserved", got.CPUModel, got.Architecture)
			}
			if got.Cores != 16 || got.PhysicalCores != 8 {
				t.Errorf("Cores/PhysicalCores = %d/%d, want 16/8", got.Cores, got.PhysicalCores)
			}
			if want := []string{"sse4_2", "avx", "avx2", "aes"}; !slices.Equal(got.Extensions, want) {
				t.Errorf("Extensions = %v, want %v", got.Extensions, want)
			}
			if got.CacheSize != "1024 KB" {
				t.Errorf("CacheSize = %q, want 1024 KB", got.CacheSize)
			}
		})
	}
}

func TestMemoryProbeExternalStorage(t *testing.T) {
	internal := StorageTotals{Total: 512 << 30, Available: 200 << 30}

	tests := []struct {
		name         string
		storage      fakeStorage
		wantHas      bool
		wantExternal *StorageTotals
	}{
		{
			name:    "no external media",
			storage: fakeStorage{internal: internal},
		},
		{
			name:         "external mounted",
			storage:      fakeStorage{internal: internal, mounted: true, external: StorageTotals{Total: 64 << 30, Available: 60 << 30}},
			wantHas:      true,
			wantExternal: &StorageTotals{Total: 64 << 30, Available: 60 << 30},
		},
		{
			name:    "external unreadable",
			storage: fakeStorage{internal: internal, mounted: true, externalErr: errUnavailable},
			wantHas: true,
		},
		{
			name:    "external half populated",
			storage: fakeStorage{internal: internal, mounted: true, external: StorageTotals{Total: 64 << 30, Available: -1}},
			wantHas: true,
		},
		{
			name:    "mount state unknown",
			storage: fakeStorage{internal: internal, mountErr: errUnavailable},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMemoryProbe(fakeMemory{}, tt.storage, nil).Run(context.Background())
			if got.TotalInternal != 512<<30 || got.UsedInternal != 312<<30 {
				t.Errorf("internal = %d/%d, want internal figures intact", got.TotalInternal, got.UsedInternal)
			}
			if got.UsedRAM != 10<<30 {
				t.Errorf("UsedRAM = %d, want %d", got.UsedRAM, int64(10<<30))
			}
			if got.HasExternal != tt.wantHas {
				t.Errorf("HasExternal = %v, want %v", got.HasExternal, tt.wantHas)
			}
			if !reflect.DeepEqual(got.External, tt.wantExternal) {
				t.Errorf("External = %+v, want %+v", got.External, tt.wantExternal)
			}
		})
	}
}

func TestPowerProbe(t *testing.T) {
	tests := []struct {
		name    string
		reading fakeBattery
		want    Power
	}{
		{
			name: "charging on mains",
			reading: fakeBattery{
				Level: 50, Scale: 100, Status: "Charging", Health: "Good", Plug: "Mains",
				TemperatureDeci: intPtr(312), VoltageMicro: 12_345_000, Technology: "Li-ion",
				CycleCount: 120, FullCapacity: 45_000_000, DesignCapacity: 50_000_000,
			},
			want: Power{
				Level: 50, Status: "Charging", Health: "Good", Voltage: 12345, Technology: "Li-ion",
				Charging: true, Source: "AC", CycleCount: 120, Capacity: 90,
			},
		},
		{
			name: "zero scale and unrecognized codes",
			reading: fakeBattery{
				Level: 50, Scale: 0, Status: "Levitating", Health: "Calibration required", Plug: "Solar",
				VoltageMicro: -1, CycleCount: -1, FullCapacity: -1, DesignCapacity: -1,
			},
			want: Power{
				Level: -1, Status: Unknown, Health: Unknown, Voltage: -1, Technology: Unknown,
				Source: Unknown, CycleCount: -1, Capacity: -1,
			},
		},
		{
			name: "discharging unplugged",
			reading: fakeBattery{
				Level: 3_100_000, Scale: 4_000_000, Status: "Discharging", Health: "Good",
				VoltageMicro: 11_000_000, Technology: "Li-poly", CycleCount: 0, FullCapacity: 1, DesignCapacity: 1,
			},
			want: Power{
				Level: 78, Status: "Discharging", Health: "Good", Voltage: 11000, Technology: "Li-poly",
				Source: "Not Charging", CycleCount: 0, Capacity: 100,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPowerProbe(tt.reading, nil).Run(context.Background())
			temp := got.Temperature
			got.Temperature = nil
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PowerProbe.Run() = %+v, want %+v", got, tt.want)
			}
			if tt.reading.TemperatureDeci != nil {
				if temp == nil || *temp != 31.2 {
					t.Errorf("Temperature = %v, want 31.2", temp)
				}
			} else if temp != nil {
				t.Errorf("Temperature = %v, want nil", *temp)
			}
		})
	}
}

func TestDisplayProbe(t *testing.T) {
	got := NewDisplayProbe(fakeDisplay{WidthPx: 2560, HeightPx: 1600, DPI: 227, RefreshHz: 59.95, Connector: "eDP-1"}, nil).Run(context.Background())
	want := Display{
		Width: 2560, Height: 1600, Resolution: "2560 x 1600", Density: 227, DensityClass: "HDPI",
		RefreshRate: 59.95, Size: "13.3\"", Orientation: "Landscape", Connector: "eDP-1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DisplayProbe.Run() = %+v, want %+v", got, want)
	}

	partial := NewDisplayProbe(fakeDisplay{WidthPx: 1080, HeightPx: 1920}, nil).Run(context.Background())
	if partial.Resolution != "1080 x 1920" || partial.Orientation != "Portrait" {
		t.Errorf("partial display = %+v, want resolution and orientation kept", partial)
	}
	if partial.Size != Unknown || partial.Density != -1 || partial.RefreshRate != -1 {
		t.Errorf("partial display = %+v, want size/density/refresh sentinels", partial)
	}
}

func TestNetworkProbe(t *testing.T) {
	wlan := fakeInterfaces{
		{Name: "lo"},
		{Name: "wlan0", HardwareAddr: []byte{0xa4, 0xc3, 0xf0, 0x11, 0x22, 0x33}},
	}

	t.Run("wifi outranks cellular and wired", func(t *testing.T) {
		conn := fakeConnectivity{
			WiFiEnabled: true,
			Active:      []Transport{TransportEthernet, TransportCellular, TransportWiFi},
			SSID:        "home",
			IPv4:        0x0101A8C0,
		}
		got := NewNetworkProbe(conn, wlan, fakeSignal(-58), "wlan0", nil).Run(context.Background())
		if got.Type != "WiFi" || !got.WiFiConnected || !got.WiFiEnabled {
			t.Errorf("Type/connected/enabled = %q/%v/%v, want WiFi/true/true", got.Type, got.WiFiConnected, got.WiFiEnabled)
		}
		if got.SSID == nil || *got.SSID != "home" {
			t.Errorf("SSID = %v, want home", got.SSID)
		}
		if got.IPAddress == nil || *got.IPAddress != "192.168.1.1" {
			t.Errorf("IPAddress = %v, want 192.168.1.1", got.IPAddress)
		}
		if got.MACAddress == nil || *got.MACAddress != "A4:C3:F0:11:22:33" {
			t.Errorf("MACAddress = %v, want A4:C3:F0:11:22:33", got.MACAddress)
		}
		if got.Signal == nil || *got.Signal != -58 {
			t.Errorf("Signal = %v, want -58", got.Signal)
		}
	})

	t.Run("cellular outranks wired", func(t *testing.T) {
		conn := fakeConnectivity{Active: []Transport{TransportEthernet, TransportCellular}}
		got := NewNetworkProbe(conn, nil, fakeSignal(-40), "wlan0", nil).Run(context.Background())
		if got.Type != "Mobile Data" {
			t.Errorf("Type = %q, want Mobile Data", got.Type)
		}
		if got.SSID != nil || got.Signal != nil || got.IPAddress != nil {
			t.Errorf("optional fields = %v/%v/%v, want nil without wifi", got.SSID, got.Signal, got.IPAddress)
		}
	})

	t.Run("signal failure keeps the rest", func(t *testing.T) {
		conn := fakeConnectivity{WiFiEnabled: true, Active: []Transport{TransportWiFi}, SSID: "cafe"}
		got := NewNetworkProbe(conn, wlan, failingSource{}, "wlan0", nil).Run(context.Background())
		if got.Signal != nil {
			t.Errorf("Signal = %v, want nil", *got.Signal)
		}
		if got.Type != "WiFi" || got.SSID == nil || got.MACAddress == nil {
			t.Errorf("network = %+v, want type, SSID and MAC intact", got)
		}
	})

	t.Run("nothing active", func(t *testing.T) {
		got := NewNetworkProbe(fakeConnectivity{}, wlan, nil, "wlan1", nil).Run(context.Background())
		if got.Type != Unknown || got.MACAddress != nil {
			t.Errorf("Type/MAC = %q/%v, want Unknown/nil", got.Type, got.MACAddress)
		}
	})
}

func TestSensorProbe(t *testing.T) {
	src := sensorList{
		{Name: "accel_3d", Kind: "accel", Vendor: "HID-SENSOR-200073", Resolution: 0.01},
		{Name: "k10temp", Kind: "temp", Vendor: "k10temp"},
		{Name: "", Kind: "timestamp"},
	}
	got := NewSensorProbe(src, nil).Run(context.Background())
	wantTypes := []string{"Accelerometer", "Temperature", "Unknown (timestamp)"}
	if len(got.Sensors) != len(wantTypes) {
		t.Fatalf("len(Sensors) = %d, want %d", len(got.Sensors), len(wantTypes))
	}
	for i, want := range wantTypes {
		if got.Sensors[i].Type != want {
			t.Errorf("Sensors[%d].Type = %q, want %q", i, got.Sensors[i].Type, want)
		}
	}
	if got.Sensors[2].Name != Unknown || got.Sensors[2].Vendor != Unknown {
		t.Errorf("Sensors[2] = %+v, want Unknown name and vendor", got.Sensors[2])
	}
}

type sensorList []SensorReading

func (s sensorList) Sensors(context.Context) ([]SensorReading, error) { return s, nil }

func TestCameraProbe(t *testing.T) {
	devices := fakeCameras{
		{ID: "video0", Name: "Integrated Camera", Facing: FacingFront},
		{ID: "video2", Name: "USB Webcam", Facing: FacingExternal},
		{ID: "video4", Name: "IR Camera", Facing: Facing(7)},
	}

	t.Run("fallback enumeration", func(t *testing.T) {
		got := NewCameraProbe(devices, nil).Run(context.Background())
		if len(got.Cameras) != 3 {
			t.Fatalf("len(Cameras) = %d, want 3", len(got.Cameras))
		}
		for i, cam := range got.Cameras {
			if cam.Resolution != nil {
				t.Errorf("Cameras[%d].Resolution = %+v, want nil", i, cam.Resolution)
			}
		}
		if got.Cameras[0].Facing != "Front" || got.Cameras[1].Facing != "External" || got.Cameras[2].Facing != Unknown {
			t.Errorf("facings = %q/%q/%q, want Front/External/Unknown", got.Cameras[0].Facing, got.Cameras[1].Facing, got.Cameras[2].Facing)
		}
	})

	t.Run("extended query", func(t *testing.T) {
		src := fakeSizedCameras{
			fakeCameras: devices,
			sizes: map[string][]FrameSize{
				"video0": {{640, 480}, {1920, 1080}, {1280, 720}},
				"video2": {},
			},
		}
		got := NewCameraProbe(src, nil).Run(context.Background())
		first := got.Cameras[0].Resolution
		if first == nil || first.Megapixels != "2.1 MP" {
			t.Fatalf("Cameras[0].Resolution = %+v, want 2.1 MP", first)
		}
		if want := []string{"640 x 480", "1920 x 1080", "1280 x 720"}; !slices.Equal(first.Sizes, want) {
			t.Errorf("Cameras[0].Sizes = %v, want %v", first.Sizes, want)
		}
		if second := got.Cameras[1].Resolution; second == nil || second.Megapixels != Unknown {
			t.Errorf("Cameras[1].Resolution = %+v, want Unknown megapixels", second)
		}
		if third := got.Cameras[2].Resolution; third != nil {
			t.Errorf("Cameras[2].Resolution = %+v, want nil after query failure", third)
		}
	})
}

func TestParseKernelBanner(t *testing.T) {
	tests := []struct {
		name                 string
		banner               string
		user, host, wantDate string
	}{
		{
			name:     "ubuntu",
			banner:   "Linux version 6.8.0-45-generic (buildd@lcy02-amd64-075) (x86_64-linux-gnu-gcc-13 (Ubuntu 13.2.0-23ubuntu4) 13.2.0, GNU ld (GNU Binutils for Ubuntu) 2.42) #45-Ubuntu SMP PREEMPT_DYNAMIC Fri Aug 30 12:02:04 UTC 2024",
			user:     "buildd",
			host:     "lcy02-amd64-075",
			wantDate: "Fri Aug 30 12:02:04 UTC 2024",
		},
		{
			name:   "no builder",
			banner: "Linux version 6.1.0 #1 SMP",
		},
		{name: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, date := parseKernelBanner(tt.banner)
			if user != tt.user || host != tt.host || date != tt.wantDate {
				t.Errorf("parseKernelBanner() = %q, %q, %q; want %q, %q, %q", user, host, date, tt.user, tt.host, tt.wantDate)
			}
		})
	}
}
