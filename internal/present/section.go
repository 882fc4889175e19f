// Package present turns a facts.Snapshot into ordered, collapsible sections
// and tracks the view state a renderer draws from.
package present

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tw93/insight/internal/facts"
)

// Key identifies a section independently of its title, which may embed a count.
type Key string

const (
	KeyOverview Key = "overview"
	KeyOS       Key = "os"
	KeyHardware Key = "hardware"
	KeyMemory   Key = "memory"
	KeyPower    Key = "power"
	KeyDisplay  Key = "display"
	KeyNetwork  Key = "network"
	KeySensors  Key = "sensors"
	KeyCameras  Key = "cameras"
	KeySystem   Key = "system"
)

type Item struct {
	Label string
	Value string
}

type Section struct {
	Key      Key
	Title    string
	Items    []Item
	Expanded bool
}

func (s Section) clone() Section {
	s.Items = append([]Item(nil), s.Items...)
	return s
}

// Build maps a snapshot to its ten sections in fixed order. Values the probes
// replaced with a sentinel are shown as such; optional values that are absent
// are left out. Only the overview starts expanded.
func Build(snap facts.Snapshot) []Section {
	return []Section{
		{Key: KeyOverview, Title: "Device Overview", Items: overviewItems(snap.Overview), Expanded: true},
		{Key: KeyOS, Title: "OS & Software", Items: osItems(snap.OS)},
		{Key: KeyHardware, Title: "CPU & Hardware", Items: hardwareItems(snap.Hardware)},
		{Key: KeyMemory, Title: "Memory & Storage", Items: memoryItems(snap.Memory)},
		{Key: KeyPower, Title: "Power", Items: powerItems(snap.Power)},
		{Key: KeyDisplay, Title: "Display", Items: displayItems(snap.Display)},
		{Key: KeyNetwork, Title: "Network", Items: networkItems(snap.Network)},
		{Key: KeySensors, Title: fmt.Sprintf("Sensors (%d)", len(snap.Sensors.Sensors)), Items: sensorItems(snap.Sensors)},
		{Key: KeyCameras, Title: fmt.Sprintf("Cameras (%d)", len(snap.Cameras.Cameras)), Items: cameraItems(snap.Cameras)},
		{Key: KeySystem, Title: "System", Items: systemItems(snap.System, snap.CollectedAt)},
	}
}

func overviewItems(o facts.Overview) []Item {
	return []Item{
		{"Manufacturer", o.Manufacturer},
		{"Model", o.Model},
		{"Brand", o.Brand},
		{"Board", o.Board},
		{"Bootloader", o.Bootloader},
		{"Device", o.Device},
		{"Product", o.Product},
		{"Hardware", o.Hardware},
	}
}

func osItems(o facts.OSInfo) []Item {
	return []Item{
		{"OS Name", o.Name},
		{"Version", o.Version},
		{"Family", o.Family},
		{"Build ID", o.BuildID},
		{"Kernel Version", o.KernelVersion},
		{"Kernel Architecture", o.KernelArch},
		{"Build Date", o.BuildDate},
		{"Build User", o.BuildUser},
		{"Build Host", o.BuildHost},
		{"Virtualization", o.Virtualization},
	}
}

func hardwareItems(h facts.Hardware) []Item {
	return []Item{
		{"CPU Architecture", h.Architecture},
		{"CPU Model", h.CPUModel},
		{"CPU Cores", facts.FormatInt(h.Cores)},
		{"Physical Cores", facts.FormatInt(h.PhysicalCores)},
		{"CPU Frequency", h.Frequency},
		{"Cache Size", h.CacheSize},
		{"Extensions", facts.JoinList(h.Extensions)},
	}
}

func memoryItems(m facts.Memory) []Item {
	items := []Item{
		{"Total RAM", facts.FormatBytes(m.TotalRAM)},
		{"Available RAM", facts.FormatBytes(m.AvailableRAM)},
		{"Used RAM", facts.FormatBytes(m.UsedRAM)},
		{"Total Swap", facts.FormatBytes(m.SwapTotal)},
		{"Used Swap", facts.FormatBytes(m.SwapUsed)},
		{"Total Internal Storage", facts.FormatBytes(m.TotalInternal)},
		{"Available Internal Storage", facts.FormatBytes(m.AvailableInternal)},
		{"Used Internal Storage", facts.FormatBytes(m.UsedInternal)},
		{"Has External Storage", facts.YesNo(m.HasExternal)},
	}
	if m.HasExternal && m.External != nil {
		items = append(items,
			Item{"Total External Storage", facts.FormatBytes(m.External.Total)},
			Item{"Available External Storage", facts.FormatBytes(m.External.Available)},
			Item{"Used External Storage", facts.FormatBytes(m.External.Used())},
		)
	}
	return items
}

func withUnit(n int, unit string) string {
	if n < 0 {
		return facts.Unknown
	}
	return strconv.Itoa(n) + unit
}

func powerItems(p facts.Power) []Item {
	temp := facts.Unknown
	if p.Temperature != nil {
		temp = fmt.Sprintf("%.1f°C", *p.Temperature)
	}
	return []Item{
		{"Battery Level", withUnit(p.Level, "%")},
		{"Status", p.Status},
		{"Health", p.Health},
		{"Temperature", temp},
		{"Voltage", withUnit(p.Voltage, " mV")},
		{"Technology", p.Technology},
		{"Is Charging", facts.YesNo(p.Charging)},
		{"Charging Source", p.Source},
		{"Cycle Count", facts.FormatInt(p.CycleCount)},
		{"Capacity", withUnit(p.Capacity, "%")},
	}
}

func displayItems(d facts.Display) []Item {
	refresh := facts.Unknown
	if d.RefreshRate >= 0 {
		refresh = strconv.FormatFloat(d.RefreshRate, 'f', -1, 64) + " Hz"
	}
	return []Item{
		{"Screen Resolution", d.Resolution},
		{"Screen Density", withUnit(d.Density, " dpi")},
		{"Density Category", d.DensityClass},
		{"Refresh Rate", refresh},
		{"Screen Size", d.Size},
		{"Orientation", d.Orientation},
		{"Connector", d.Connector},
	}
}

func networkItems(n facts.Network) []Item {
	items := []Item{
		{"WiFi Enabled", facts.YesNo(n.WiFiEnabled)},
		{"WiFi Connected", facts.YesNo(n.WiFiConnected)},
	}
	if n.SSID != nil {
		items = append(items, Item{"WiFi SSID", *n.SSID})
	}
	if n.IPAddress != nil {
		items = append(items, Item{"IP Address", *n.IPAddress})
	}
	if n.MACAddress != nil {
		items = append(items, Item{"MAC Address", *n.MACAddress})
	}
	items = append(items, Item{"Network Type", n.Type})
	if n.Signal != nil {
		items = append(items, Item{"Signal Strength", fmt.Sprintf("%d dBm", *n.Signal)})
	}
	return items
}

func sensorItems(s facts.Sensors) []Item {
	items := make([]Item, 0, len(s.Sensors))
	for i, sensor := range s.Sensors {
		items = append(items, Item{
			Label: fmt.Sprintf("%d. %s", i+1, sensor.Name),
			Value: sensor.Type + " - " + sensor.Vendor,
		})
	}
	return items
}

func cameraItems(c facts.Cameras) []Item {
	items := make([]Item, 0, len(c.Cameras))
	for i, camera := range c.Cameras {
		value := camera.Facing
		if camera.Resolution != nil {
			value += " - " + camera.Resolution.Megapixels
		}
		items = append(items, Item{Label: fmt.Sprintf("Camera %d", i+1), Value: value})
	}
	return items
}

func systemItems(s facts.System, collectedAt time.Time) []Item {
	boot := s.BootTime
	if !s.BootedAt.IsZero() && !collectedAt.IsZero() {
		boot += " (" + humanize.RelTime(s.BootedAt, collectedAt, "ago", "from now") + ")"
	}
	return []Item{
		{"Uptime", s.Uptime},
		{"Boot Time", boot},
		{"Timezone", s.Timezone},
		{"Locale", s.Locale},
		{"Runtime Version", s.RuntimeVersion},
		{"Runtime", s.RuntimeName},
		{"Load Average", s.LoadAverage},
		{"Processes", facts.FormatInt(s.Processes)},
	}
}
