package facts

import (
	"fmt"
	"strings"
)

// Fixed enumerations. Every decoder falls back to Unknown so new codes from a
// newer kernel or firmware never fail a probe.

var batteryStatusNames = map[string]string{
	"charging":     "Charging",
	"discharging":  "Discharging",
	"full":         "Full",
	"not charging": "Not Charging",
	"unknown":      Unknown,
}

func DecodeBatteryStatus(raw string) string {
	if name, ok := batteryStatusNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return name
	}
	return Unknown
}

var batteryHealthNames = map[string]string{
	"good":                "Good",
	"overheat":            "Overheat",
	"hot":                 "Overheat",
	"dead":                "Dead",
	"over voltage":        "Over Voltage",
	"unspecified failure": "Unspecified Failure",
	"cold":                "Cold",
}

func DecodeBatteryHealth(raw string) string {
	if name, ok := batteryHealthNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return name
	}
	return Unknown
}

// DecodePlugSource maps the type of the online supply to a charging source.
// An empty type means nothing is plugged in.
func DecodePlugSource(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "Not Charging"
	case raw == "Mains":
		return "AC"
	case strings.HasPrefix(raw, "USB"):
		return "USB"
	case raw == "Wireless":
		return "Wireless"
	default:
		return Unknown
	}
}

// SMBIOS chassis types, indexed by code.
var chassisNames = []string{
	1:  "Other",
	2:  Unknown,
	3:  "Desktop",
	4:  "Low Profile Desktop",
	5:  "Pizza Box",
	6:  "Mini Tower",
	7:  "Tower",
	8:  "Portable",
	9:  "Laptop",
	10: "Notebook",
	11: "Hand Held",
	12: "Docking Station",
	13: "All in One",
	14: "Sub Notebook",
	15: "Space-saving",
	16: "Lunch Box",
	17: "Main Server Chassis",
	18: "Expansion Chassis",
	19: "SubChassis",
	20: "Bus Expansion Chassis",
	21: "Peripheral Chassis",
	22: "RAID Chassis",
	23: "Rack Mount Chassis",
	24: "Sealed-case PC",
	25: "Multi-system Chassis",
	26: "Compact PCI",
	27: "Advanced TCA",
	28: "Blade",
	29: "Blade Enclosure",
	30: "Tablet",
	31: "Convertible",
	32: "Detachable",
	33: "IoT Gateway",
	34: "Embedded PC",
	35: "Mini PC",
	36: "Stick PC",
}

func DecodeChassis(code int) string {
	if code <= 0 || code >= len(chassisNames) {
		return Unknown
	}
	return chassisNames[code]
}

var sensorKindNames = map[string]string{
	"accel":            "Accelerometer",
	"anglvel":          "Gyroscope",
	"magn":             "Magnetometer",
	"proximity":        "Proximity",
	"illuminance":      "Light",
	"intensity":        "Light",
	"pressure":         "Pressure",
	"temp":             "Temperature",
	"humidityrelative": "Humidity",
	"rot":              "Rotation Vector",
	"incli":            "Orientation",
	"gravity":          "Gravity",
	"ambient":          "Ambient Temperature",
}

func DecodeSensorKind(kind string) string {
	if name, ok := sensorKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%s)", kind)
}

func DecodeFacing(f Facing) string {
	switch f {
	case FacingFront:
		return "Front"
	case FacingBack:
		return "Back"
	case FacingExternal:
		return "External"
	default:
		return Unknown
	}
}

// ClassifyTransport picks the highest-priority active transport:
// Wi-Fi, then cellular, then wired.
func ClassifyTransport(active []Transport) string {
	best := Transport(0)
	for _, t := range active {
		switch t {
		case TransportWiFi, TransportCellular, TransportEthernet:
			if best == 0 || t < best {
				best = t
			}
		}
	}
	switch best {
	case TransportWiFi:
		return "WiFi"
	case TransportCellular:
		return "Mobile Data"
	case TransportEthernet:
		return "Ethernet"
	default:
		return Unknown
	}
}
