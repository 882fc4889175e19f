package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/tw93/insight/internal/facts"
	"github.com/tw93/insight/internal/present"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C79FD7")).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A5D6A7"))
	lineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#404040"))

	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))
)

const (
	colWidth      = 38
	maxLabelWidth = 28

	iconOverview = "◆"
	iconOS       = "◧"
	iconHardware = "◉"
	iconMemory   = "◫"
	iconPower    = "◪"
	iconDisplay  = "▣"
	iconNetwork  = "⇅"
	iconSensors  = "◈"
	iconCameras  = "◎"
	iconSystem   = "❊"
)

var sectionIcons = map[present.Key]string{
	present.KeyOverview: iconOverview,
	present.KeyOS:       iconOS,
	present.KeyHardware: iconHardware,
	present.KeyMemory:   iconMemory,
	present.KeyPower:    iconPower,
	present.KeyDisplay:  iconDisplay,
	present.KeyNetwork:  iconNetwork,
	present.KeySensors:  iconSensors,
	present.KeyCameras:  iconCameras,
	present.KeySystem:   iconSystem,
}

type cardData struct {
	icon  string
	title string
	lines []string
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch s := m.state.(type) {
	case present.Error:
		b.WriteString(renderError(s.Message))
	case present.Loading:
		if len(m.sections) == 0 {
			b.WriteString(m.spinner.View() + " Collecting device information...")
			break
		}
		b.WriteString(renderSections(m.sections, m.cursor, m.width))
	default:
		b.WriteString(renderSections(m.sections, m.cursor, m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(renderHelp(m.keys.bindings()))
	return b.String()
}

func (m model) renderHeader() string {
	header := titleStyle.Render("Device Insight")
	switch s := m.state.(type) {
	case present.Loading:
		if len(m.sections) > 0 {
			header += "  " + m.spinner.View() + subtleStyle.Render(" refreshing")
		}
	case present.Success:
		if !s.Snapshot.CollectedAt.IsZero() {
			header += "  " + subtleStyle.Render("collected "+s.Snapshot.CollectedAt.Format("15:04:05"))
		}
		if m.changed {
			header += "  " + warnStyle.Render("● changed")
		}
	}
	return header
}

func renderError(message string) string {
	return dangerStyle.Render("✗ "+message) + "\n" + subtleStyle.Render("press r to retry")
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return subtleStyle.Render(strings.Join(parts, " · "))
}

// renderSections lists every section title and draws expanded ones as cards.
func renderSections(sections []present.Section, cursor, width int) string {
	cw := colWidth
	if width > cw+2 {
		cw = width - 2
	}

	rows := make([]string, 0, len(sections))
	for i, s := range sections {
		pointer := "  "
		if i == cursor {
			pointer = primaryStyle.Render("› ")
		}
		if !s.Expanded {
			rows = append(rows, pointer+titleStyle.Render(sectionIcons[s.Key]+" "+s.Title)+subtleStyle.Render(" ▸"))
			continue
		}
		card := sectionCard(s, cw)
		rows = append(rows, pointer+renderCard(card, cw))
	}
	return strings.Join(rows, "\n")
}

func sectionCard(s present.Section, width int) cardData {
	labelWidth := 0
	for _, item := range s.Items {
		labelWidth = max(labelWidth, lipgloss.Width(item.Label))
	}
	labelWidth = min(labelWidth, maxLabelWidth)
	valueWidth := max(width-labelWidth-4, 8)

	lines := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		label := shorten(item.Label, labelWidth)
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))
		lines = append(lines, "    "+subtleStyle.Render(label+pad)+"  "+renderValue(s.Key, item, valueWidth))
	}
	if len(lines) == 0 {
		lines = append(lines, "    "+subtleStyle.Render("Nothing reported"))
	}
	return cardData{icon: sectionIcons[s.Key], title: s.Title, lines: lines}
}

func renderValue(k present.Key, item present.Item, width int) string {
	v := shorten(item.Value, width)
	if item.Value == facts.Unknown {
		return subtleStyle.Render(v)
	}
	if k == present.KeyPower && item.Label == "Battery Level" {
		if level, err := strconv.Atoi(strings.TrimSuffix(item.Value, "%")); err == nil {
			return colorizeBattery(float64(level), v)
		}
	}
	return v
}

func renderCard(data cardData, width int) string {
	titleText := data.icon + " " + data.title
	lineLen := max(width-lipgloss.Width(titleText)-2, 4)
	header := titleStyle.Render(titleText) + "  " + lineStyle.Render(strings.Repeat("╌", lineLen))
	return header + "\n" + strings.Join(data.lines, "\n")
}

func colorizeBattery(percent float64, s string) string {
	switch {
	case percent < 20:
		return dangerStyle.Render(s)
	case percent < 50:
		return warnStyle.Render(s)
	default:
		return okStyle.Render(s)
	}
}

func shorten(s string, maxLen int) string {
	if maxLen <= 0 || len([]rune(s)) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-1]) + "…"
}
