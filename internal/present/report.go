package present

import (
	"io"
	"strings"

	"github.com/tw93/insight/internal/facts"
)

const reportRule = "========================================"

// Report renders every section of the snapshot, expanded or not, as plain
// text suitable for sharing.
func Report(snap facts.Snapshot) string {
	var b strings.Builder
	_ = WriteReport(&b, snap)
	return b.String()
}

func WriteReport(w io.Writer, snap facts.Snapshot) error {
	var b strings.Builder
	b.WriteString("Device Information Report\n")
	b.WriteString("Generated by insight\n")
	if !snap.CollectedAt.IsZero() {
		b.WriteString("Collected " + snap.CollectedAt.Format("2006-01-02 15:04:05 MST") + "\n")
	}
	b.WriteString(reportRule + "\n")

	for _, s := range Build(snap) {
		b.WriteString("\n" + s.Title + ":\n")
		for _, item := range s.Items {
			b.WriteString(item.Label + ": " + item.Value + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
