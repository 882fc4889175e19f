package facts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"howett.net/plist"
)

func runCmd(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

func commandExists(name string) bool {
	if name == "" {
		return false
	}
	defer func() {
		// Treat LookPath panics as "missing".
		_ = recover()
	}()
	_, err := exec.LookPath(name)
	return err == nil
}

// pmsetPower reads the battery on macOS: pmset for the live level and
// status, system_profiler for health, ioreg for temperature and voltage.
type pmsetPower struct{}

func (pmsetPower) Battery(ctx context.Context) (BatteryReading, error) {
	if !commandExists("pmset") {
		return BatteryReading{}, errors.New("pmset not available")
	}
	out, err := runCmd(ctx, "pmset", "-g", "batt")
	if err != nil {
		return BatteryReading{}, fmt.Errorf("pmset: %w", err)
	}
	r, ok := parsePMSet(out)
	if !ok {
		return BatteryReading{}, errNoBattery
	}
	if profile, err := runCmd(ctx, "system_profiler", "SPPowerDataType"); err == nil {
		applyPowerProfile(&r, profile)
	}
	if ioreg, err := runCmd(ctx, "ioreg", "-rn", "AppleSmartBattery"); err == nil {
		applySmartBattery(&r, ioreg)
	}
	return r, nil
}

// parsePMSet reads `pmset -g batt` output such as
//
//	Now drawing from 'AC Power'
//	 -InternalBattery-0 (id=4653155)	85%; charging; 1:02 remaining present: true
func parsePMSet(raw string) (BatteryReading, bool) {
	r := BatteryReading{Level: -1, Scale: -1, VoltageMicro: -1, CycleCount: -1, FullCapacity: -1, DesignCapacity: -1}
	found := false
	for line := range strings.Lines(raw) {
		if _, after, ok := strings.Cut(line, "drawing from '"); ok {
			source, _, _ := strings.Cut(after, "'")
			if source == "AC Power" {
				r.Plug = "Mains"
			}
			continue
		}
		if found || !strings.Contains(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		for i, f := range fields {
			if !strings.Contains(f, "%") {
				continue
			}
			value := strings.TrimSuffix(strings.TrimSuffix(f, ";"), "%")
			if p, err := strconv.ParseFloat(value, 64); err == nil {
				r.Level, r.Scale = int64(p), 100
				found = true
				if i+1 < len(fields) {
					r.Status = pmsetStatus(strings.TrimSuffix(fields[i+1], ";"))
				}
			}
			break
		}
	}
	return r, found
}

func pmsetStatus(word string) string {
	switch word {
	case "charging", "finishing":
		return "Charging"
	case "discharging":
		return "Discharging"
	case "charged":
		return "Full"
	case "AC":
		// "AC attached; not charging"
		return "Not Charging"
	default:
		return ""
	}
}

func applyPowerProfile(r *BatteryReading, out string) {
	for line := range strings.Lines(out) {
		key, after, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value := strings.TrimSpace(after)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "cycle count":
			if n, err := strconv.Atoi(value); err == nil {
				r.CycleCount = n
			}
		case "condition":
			if value == "Normal" {
				r.Health = "Good"
			}
		case "maximum capacity":
			if n, err := strconv.ParseInt(strings.TrimSuffix(value, "%"), 10, 64); err == nil {
				r.FullCapacity, r.DesignCapacity = n, 100
			}
		}
	}
}

// applySmartBattery reads `"Temperature" = 3055` (centi-°C) and
// `"Voltage" = 12650` (mV) from ioreg output.
func applySmartBattery(r *BatteryReading, out string) {
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "\"Temperature\" = "); ok {
			if centi, err := strconv.Atoi(strings.TrimSpace(after)); err == nil && centi > 0 {
				deci := centi / 10
				r.TemperatureDeci = &deci
			}
		}
		if after, ok := strings.CutPrefix(line, "\"Voltage\" = "); ok {
			if mv, err := strconv.ParseInt(strings.TrimSpace(after), 10, 64); err == nil && mv > 0 {
				r.VoltageMicro = mv * 1000
			}
		}
	}
}

// profilerDisplay reads the main display from system_profiler's plist output.
type profilerDisplay struct{}

func (profilerDisplay) Display(ctx context.Context) (DisplayMetrics, error) {
	if !commandExists("system_profiler") {
		return DisplayMetrics{}, errors.New("system_profiler not available")
	}
	out, err := runCmd(ctx, "system_profiler", "-xml", "SPDisplaysDataType")
	if err != nil {
		return DisplayMetrics{}, fmt.Errorf("system_profiler: %w", err)
	}
	return parseDisplayProfile([]byte(out))
}

type spDataType struct {
	Items []spGPU `plist:"_items"`
}

type spGPU struct {
	Name     string      `plist:"_name"`
	Displays []spDisplay `plist:"spdisplays_ndrvs"`
}

type spDisplay struct {
	Name       string `plist:"_name"`
	Pixels     string `plist:"_spdisplays_pixels"`
	Resolution string `plist:"_spdisplays_resolution"`
	Main       string `plist:"spdisplays_main"`
	Connection string `plist:"spdisplays_connection_type"`
}

// parseDisplayProfile picks the main display, or the first one listed.
// Physical size is not exposed, so DPI stays unknown.
func parseDisplayProfile(data []byte) (DisplayMetrics, error) {
	var types []spDataType
	if _, err := plist.Unmarshal(data, &types); err != nil {
		return DisplayMetrics{}, fmt.Errorf("decode display profile: %w", err)
	}

	var chosen *spDisplay
	for _, t := range types {
		for _, gpu := range t.Items {
			for i := range gpu.Displays {
				d := &gpu.Displays[i]
				if chosen == nil || (d.Main == "spdisplays_yes" && chosen.Main != "spdisplays_yes") {
					chosen = d
				}
			}
		}
	}
	if chosen == nil {
		return DisplayMetrics{}, errNoDisplay
	}

	m := DisplayMetrics{Connector: chosen.Name}
	if chosen.Connection == "spdisplays_internal" {
		m.Connector = "Built-in " + chosen.Name
	}
	pixels := chosen.Pixels
	if pixels == "" {
		pixels, _, _ = strings.Cut(chosen.Resolution, "@")
	}
	fmt.Sscanf(strings.ReplaceAll(pixels, " ", ""), "%dx%d", &m.WidthPx, &m.HeightPx)

	if _, hz, ok := strings.Cut(chosen.Resolution, "@"); ok {
		hz = strings.TrimSuffix(strings.TrimSpace(hz), "Hz")
		if v, err := strconv.ParseFloat(hz, 64); err == nil {
			m.RefreshHz = v
		}
	}
	return m, nil
}
