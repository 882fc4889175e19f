package facts

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatBytes renders a byte count in B/KB/MB/GB using 1024 steps.
// Negative counts are the unknown sentinel.
func FormatBytes(v int64) string {
	if v < 0 {
		return Unknown
	}
	f := float64(v)
	switch {
	case f >= 1<<30:
		return fmt.Sprintf("%.2f GB", f/(1<<30))
	case f >= 1<<20:
		return fmt.Sprintf("%.2f MB", f/(1<<20))
	case f >= 1<<10:
		return fmt.Sprintf("%.2f KB", f/(1<<10))
	default:
		return strconv.FormatInt(v, 10) + " B"
	}
}

func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// JoinList keeps source order and duplicates.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// FormatInt renders a count, mapping the -1 sentinel to Unknown.
func FormatInt(n int) string {
	if n < 0 {
		return Unknown
	}
	return strconv.Itoa(n)
}

// FormatFrequencyKHz converts the raw cpufreq file content (kHz) into "N MHz".
func FormatFrequencyKHz(raw string) string {
	khz, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || khz <= 0 {
		return Unknown
	}
	return fmt.Sprintf("%d MHz", khz/1000)
}

var densityBuckets = []struct {
	max  int
	name string
}{
	{120, "LDPI"},
	{160, "MDPI"},
	{240, "HDPI"},
	{320, "XHDPI"},
	{480, "XXHDPI"},
	{640, "XXXHDPI"},
}

// DensityClass buckets a dpi value by upper-bound thresholds.
func DensityClass(dpi int) string {
	if dpi <= 0 {
		return Unknown
	}
	for _, b := range densityBuckets {
		if dpi <= b.max {
			return b.name
		}
	}
	return "ULTRA_HIGH"
}

// ScreenDiagonal converts pixels to density-independent units and returns the
// diagonal in inches to one decimal.
func ScreenDiagonal(widthPx, heightPx, dpi int) string {
	if widthPx <= 0 || heightPx <= 0 || dpi <= 0 {
		return Unknown
	}
	widthDp := float64(widthPx) * 160 / float64(dpi)
	heightDp := float64(heightPx) * 160 / float64(dpi)
	size := math.Sqrt(widthDp*widthDp+heightDp*heightDp) / 160
	return fmt.Sprintf("%.1f\"", size)
}

// BatteryPercent returns round(level*100/scale), or -1 when either input is
// missing or scale is not positive.
func BatteryPercent(level, scale int64) int {
	if level < 0 || scale <= 0 {
		return -1
	}
	return int(math.Round(float64(level) * 100 / float64(scale)))
}

// UnpackIPv4 unpacks a 32-bit address stored with the first octet in the low byte.
func UnpackIPv4(packed uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		packed&0xff,
		packed>>8&0xff,
		packed>>16&0xff,
		packed>>24&0xff,
	)
}

// PackIPv4 is the inverse of UnpackIPv4. It returns 0 for anything that is not
// a dotted IPv4 address.
func PackIPv4(addr string) uint32 {
	addr, _, _ = strings.Cut(addr, "/")
	parts := strings.Split(addr, ".")
	if len(parts) != 4 {
		return 0
	}
	var packed uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0
		}
		packed |= uint32(n) << (8 * i)
	}
	return packed
}

// FormatHardwareAddr renders raw address bytes as colon-separated uppercase hex.
func FormatHardwareAddr(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, ":")
}

// FormatUptime renders seconds as HH:MM:SS; hours are not wrapped into days.
func FormatUptime(secs uint64) string {
	hours := secs / 3600
	mins := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, mins, s)
}

const bootTimeLayout = "Jan 02 2006 15:04:05"

func FormatBootTime(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	return t.Format(bootTimeLayout)
}

// FormatMegapixels reports width*height in megapixels to one decimal.
func FormatMegapixels(width, height int) string {
	if width <= 0 || height <= 0 {
		return Unknown
	}
	return fmt.Sprintf("%.1f MP", float64(width)*float64(height)/1_000_000)
}

func FormatResolution(width, height int) string {
	if width <= 0 || height <= 0 {
		return Unknown
	}
	return fmt.Sprintf("%d x %d", width, height)
}
