package facts

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

var (
	errNoBattery = errors.New("no battery found")
	errNoDisplay = errors.New("no connected display found")
)

// sysfs resolves kernel interface paths against configurable roots so tests
// can point it at a synthetic tree.
type sysfs struct {
	sysRoot  string
	procRoot string
}

func (s sysfs) sys(elem ...string) string {
	return filepath.Join(append([]string{s.sysRoot}, elem...)...)
}

func (s sysfs) proc(elem ...string) string {
	return filepath.Join(append([]string{s.procRoot}, elem...)...)
}

// readSysfsString returns the trimmed contents of a kernel attribute file, or
// "" when it cannot be read.
func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readSysfsInt64(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}

func parseUevent(data string) map[string]string {
	props := make(map[string]string)
	for line := range strings.Lines(data) {
		if k, v, ok := strings.Cut(strings.TrimSpace(line), "="); ok {
			props[k] = v
		}
	}
	return props
}

type dmiIdentity struct {
	fs sysfs
}

func (d dmiIdentity) Identity(ctx context.Context) (Identity, error) {
	dmi := func(name string) string {
		return readSysfsString(d.fs.sys("class/dmi/id", name))
	}
	id := Identity{
		Vendor:          dmi("sys_vendor"),
		Product:         dmi("product_name"),
		Family:          dmi("product_family"),
		BoardVendor:     dmi("board_vendor"),
		BoardName:       dmi("board_name"),
		FirmwareVersion: dmi("bios_version"),
		ChassisType:     -1,
	}
	if n, err := strconv.Atoi(dmi("chassis_type")); err == nil {
		id.ChassisType = n
	}
	if info, err := host.InfoWithContext(ctx); err == nil {
		id.Hostname = info.Hostname
	}
	if id == (Identity{ChassisType: -1}) {
		return id, errors.New("no DMI identity or hostname available")
	}
	return id, nil
}

// sysfsPower reads /sys/class/power_supply. The first system-scope battery is
// reported; the type of any online non-battery supply is the plug source.
type sysfsPower struct {
	fs sysfs
}

func (p sysfsPower) Battery(ctx context.Context) (BatteryReading, error) {
	base := p.fs.sys("class/power_supply")
	entries, err := os.ReadDir(base)
	if err != nil {
		return BatteryReading{}, fmt.Errorf("read power supplies: %w", err)
	}

	var battery map[string]string
	plug := ""
	for _, entry := range entries {
		props := parseUevent(readSysfsString(filepath.Join(base, entry.Name(), "uevent")))
		switch props["POWER_SUPPLY_TYPE"] {
		case "Battery":
			if battery == nil && props["POWER_SUPPLY_SCOPE"] != "Device" {
				battery = props
			}
		case "":
		default:
			if plug == "" && props["POWER_SUPPLY_ONLINE"] == "1" {
				plug = props["POWER_SUPPLY_TYPE"]
			}
		}
	}
	if battery == nil {
		return BatteryReading{}, errNoBattery
	}
	return batteryFromUevent(battery, plug), nil
}

func batteryFromUevent(props map[string]string, plug string) BatteryReading {
	num := func(key string) int64 {
		v, err := strconv.ParseInt(props[key], 10, 64)
		if err != nil {
			return -1
		}
		return v
	}

	r := BatteryReading{
		Level:          -1,
		Scale:          -1,
		Status:         props["POWER_SUPPLY_STATUS"],
		Health:         props["POWER_SUPPLY_HEALTH"],
		Plug:           plug,
		VoltageMicro:   num("POWER_SUPPLY_VOLTAGE_NOW"),
		Technology:     props["POWER_SUPPLY_TECHNOLOGY"],
		CycleCount:     int(num("POWER_SUPPLY_CYCLE_COUNT")),
		FullCapacity:   -1,
		DesignCapacity: -1,
	}

	switch {
	case num("POWER_SUPPLY_ENERGY_NOW") >= 0 && num("POWER_SUPPLY_ENERGY_FULL") > 0:
		r.Level, r.Scale = num("POWER_SUPPLY_ENERGY_NOW"), num("POWER_SUPPLY_ENERGY_FULL")
		r.FullCapacity, r.DesignCapacity = num("POWER_SUPPLY_ENERGY_FULL"), num("POWER_SUPPLY_ENERGY_FULL_DESIGN")
	case num("POWER_SUPPLY_CHARGE_NOW") >= 0 && num("POWER_SUPPLY_CHARGE_FULL") > 0:
		r.Level, r.Scale = num("POWER_SUPPLY_CHARGE_NOW"), num("POWER_SUPPLY_CHARGE_FULL")
		r.FullCapacity, r.DesignCapacity = num("POWER_SUPPLY_CHARGE_FULL"), num("POWER_SUPPLY_CHARGE_FULL_DESIGN")
	case num("POWER_SUPPLY_CAPACITY") >= 0:
		r.Level, r.Scale = num("POWER_SUPPLY_CAPACITY"), 100
	}

	if t := num("POWER_SUPPLY_TEMP"); props["POWER_SUPPLY_TEMP"] != "" && t != -1 {
		deci := int(t)
		r.TemperatureDeci = &deci
	}

	// Some firmware reports "Discharging" at full capacity while on AC power.
	if r.Status == "Discharging" && plug != "" && BatteryPercent(r.Level, r.Scale) >= 100 {
		r.Status = "Full"
	}
	return r
}

// drmDisplay reports the first connected DRM connector, preferring built-in
// panels, using its preferred mode and EDID.
type drmDisplay struct {
	fs sysfs
}

func (d drmDisplay) Display(ctx context.Context) (DisplayMetrics, error) {
	connectors, err := filepath.Glob(d.fs.sys("class/drm/card*-*"))
	if err != nil {
		return DisplayMetrics{}, err
	}
	sort.SliceStable(connectors, func(i, j int) bool {
		return isInternalPanel(connectors[i]) && !isInternalPanel(connectors[j])
	})

	for _, dir := range connectors {
		if readSysfsString(filepath.Join(dir, "status")) != "connected" {
			continue
		}
		m := DisplayMetrics{Connector: connectorName(dir)}
		modes := readSysfsString(filepath.Join(dir, "modes"))
		if first, _, _ := strings.Cut(modes, "\n"); first != "" {
			fmt.Sscanf(first, "%dx%d", &m.WidthPx, &m.HeightPx)
		}

		if edid, err := os.ReadFile(filepath.Join(dir, "edid")); err == nil {
			if info, ok := parseEDID(edid); ok {
				if m.WidthPx == 0 {
					m.WidthPx, m.HeightPx = info.width, info.height
				}
				m.RefreshHz = info.refresh
				if info.widthMM > 0 && m.WidthPx > 0 {
					m.DPI = int(math.Round(float64(m.WidthPx) / (float64(info.widthMM) / 25.4)))
				}
			}
		}
		return m, nil
	}
	return DisplayMetrics{}, errNoDisplay
}

func connectorName(dir string) string {
	base := filepath.Base(dir)
	if _, after, ok := strings.Cut(base, "-"); ok {
		return after
	}
	return base
}

func isInternalPanel(dir string) bool {
	name := connectorName(dir)
	return strings.HasPrefix(name, "eDP") || strings.HasPrefix(name, "LVDS") || strings.HasPrefix(name, "DSI")
}

type edidInfo struct {
	width, height     int
	widthMM, heightMM int
	refresh           float64
}

var edidHeader = []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// parseEDID decodes the first detailed timing descriptor of an EDID 1.x block.
func parseEDID(b []byte) (edidInfo, bool) {
	if len(b) < 128 || string(b[:8]) != string(edidHeader) {
		return edidInfo{}, false
	}
	var info edidInfo
	info.widthMM, info.heightMM = int(b[21])*10, int(b[22])*10

	d := b[54:72]
	pixelClock := int(d[0]) | int(d[1])<<8 // 10 kHz units
	if pixelClock == 0 {
		return info, info.widthMM > 0
	}
	hActive := int(d[2]) | int(d[4]>>4)<<8
	hBlank := int(d[3]) | int(d[4]&0x0f)<<8
	vActive := int(d[5]) | int(d[7]>>4)<<8
	vBlank := int(d[6]) | int(d[7]&0x0f)<<8
	info.width, info.height = hActive, vActive

	if total := (hActive + hBlank) * (vActive + vBlank); total > 0 {
		hz := float64(pixelClock) * 10_000 / float64(total)
		info.refresh = math.Round(hz*100) / 100
	}
	if mm := int(d[12]) | int(d[14]>>4)<<8; mm > 0 {
		info.widthMM = mm
		info.heightMM = int(d[13]) | int(d[14]&0x0f)<<8
	}
	return info, true
}

// iioSensors enumerates industrial-I/O devices. The sensor kind is taken from
// the first in_<kind>_* channel attribute.
type iioSensors struct {
	fs sysfs
}

func (s iioSensors) Sensors(ctx context.Context) ([]SensorReading, error) {
	devices, err := filepath.Glob(s.fs.sys("bus/iio/devices/iio:device*"))
	if err != nil {
		return nil, err
	}
	sort.Slice(devices, func(i, j int) bool { return deviceIndex(devices[i]) < deviceIndex(devices[j]) })

	var out []SensorReading
	for _, dir := range devices {
		kind := iioKind(dir)
		r := SensorReading{
			Name:   readSysfsString(filepath.Join(dir, "name")),
			Kind:   kind,
			Vendor: readSysfsString(filepath.Join(dir, "label")),
		}
		if scale, err := strconv.ParseFloat(readSysfsString(filepath.Join(dir, "in_"+kind+"_scale")), 64); err == nil {
			r.Resolution = scale
		}
		out = append(out, r)
	}
	return out, nil
}

func iioKind(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		name, ok := strings.CutPrefix(e.Name(), "in_")
		if !ok {
			continue
		}
		kind, _, _ := strings.Cut(name, "_")
		if kind != "" && kind != "timestamp" {
			return kind
		}
	}
	return ""
}

// deviceIndex extracts the trailing number of names like iio:device3 or video12.
func deviceIndex(path string) int {
	base := filepath.Base(path)
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(base[i:])
	if err != nil {
		return math.MaxInt
	}
	return n
}

// video4linuxCameras lists capture nodes from sysfs. Secondary nodes of the
// same device (index != 0, usually metadata) are skipped.
type video4linuxCameras struct {
	fs sysfs
}

func (v video4linuxCameras) Cameras(ctx context.Context) ([]CameraDevice, error) {
	nodes, err := filepath.Glob(v.fs.sys("class/video4linux/video*"))
	if err != nil {
		return nil, err
	}
	sort.Slice(nodes, func(i, j int) bool { return deviceIndex(nodes[i]) < deviceIndex(nodes[j]) })

	var out []CameraDevice
	for _, dir := range nodes {
		if idx := readSysfsString(filepath.Join(dir, "index")); idx != "" && idx != "0" {
			continue
		}
		name := readSysfsString(filepath.Join(dir, "name"))
		out = append(out, CameraDevice{
			ID:     filepath.Base(dir),
			Name:   name,
			Facing: cameraFacing(name, readSysfsString(dir+"/device/../removable")),
		})
	}
	return out, nil
}

func cameraFacing(name, removable string) Facing {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "rear") || strings.Contains(lower, "back") || strings.Contains(lower, "world"):
		return FacingBack
	case removable == "removable":
		return FacingExternal
	case removable == "fixed" || strings.Contains(lower, "integrated") || strings.Contains(lower, "front"):
		return FacingFront
	default:
		return FacingUnknown
	}
}

// procWireless reads the signal level column of /proc/net/wireless.
type procWireless struct {
	fs sysfs
}

func (p procWireless) SignalDBm(ctx context.Context, iface string) (int, error) {
	f, err := os.Open(p.fs.proc("net/wireless"))
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return parseWireless(bufio.NewScanner(f), iface)
}

func parseWireless(scanner *bufio.Scanner, iface string) (int, error) {
	for scanner.Scan() {
		name, rest, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(name) != iface {
			continue
		}
		// status, link quality, signal level, noise, ...
		fields := strings.Fields(rest)
		if len(fields) < 3 {
			break
		}
		level, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "."), 64)
		if err != nil {
			return 0, fmt.Errorf("parse signal level %q: %w", fields[2], err)
		}
		return int(level), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("interface %s not in wireless table", iface)
}

// sysfsConnectivity derives active transports from /sys/class/net when
// NetworkManager is not reachable. It cannot see the SSID.
type sysfsConnectivity struct {
	fs     sysfs
	ifaces InterfaceSource
}

func (s sysfsConnectivity) Connectivity(ctx context.Context) (Connectivity, error) {
	base := s.fs.sys("class/net")
	entries, err := os.ReadDir(base)
	if err != nil {
		return Connectivity{}, fmt.Errorf("read net class: %w", err)
	}

	var (
		out    Connectivity
		best   Transport
		bestIf string
	)
	for _, e := range entries {
		name := e.Name()
		if name == "lo" {
			continue
		}
		dir := filepath.Join(base, name)
		t := netTransport(dir, name)
		if t == TransportWiFi && !wifiBlocked(s.fs) {
			out.WiFiEnabled = true
		}
		if t == 0 || readSysfsString(filepath.Join(dir, "operstate")) != "up" {
			continue
		}
		out.Active = append(out.Active, t)
		if best == 0 || t < best {
			best, bestIf = t, name
		}
	}

	if bestIf != "" && s.ifaces != nil {
		if list, err := s.ifaces.Interfaces(ctx); err == nil {
			for _, iface := range list {
				if iface.Name != bestIf {
					continue
				}
				for _, addr := range iface.Addrs {
					if packed := PackIPv4(addr); packed != 0 {
						out.IPv4 = packed
						break
					}
				}
			}
		}
	}
	return out, nil
}

func netTransport(dir, name string) Transport {
	if _, err := os.Stat(filepath.Join(dir, "wireless")); err == nil {
		return TransportWiFi
	}
	if _, err := os.Stat(filepath.Join(dir, "phy80211")); err == nil {
		return TransportWiFi
	}
	props := parseUevent(readSysfsString(filepath.Join(dir, "uevent")))
	if props["DEVTYPE"] == "wwan" || strings.HasPrefix(name, "wwan") || strings.HasPrefix(name, "rmnet") {
		return TransportCellular
	}
	if props["DEVTYPE"] == "" && readSysfsString(filepath.Join(dir, "type")) == "1" {
		if _, err := os.Stat(filepath.Join(dir, "device")); err == nil {
			return TransportEthernet
		}
	}
	return 0
}

func wifiBlocked(fs sysfs) bool {
	switches, _ := filepath.Glob(fs.sys("class/rfkill/rfkill*"))
	for _, dir := range switches {
		if readSysfsString(filepath.Join(dir, "type")) != "wlan" {
			continue
		}
		if readSysfsString(filepath.Join(dir, "soft")) == "1" || readSysfsString(filepath.Join(dir, "hard")) == "1" {
			return true
		}
	}
	return false
}
