package main

import (
	"strings"
	"testing"

	"github.com/tw93/insight/internal/facts"
	"github.com/tw93/insight/internal/present"
)

func TestShorten(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"fits", "eDP-1", 10, "eDP-1"},
		{"exact", "abcdef", 6, "abcdef"},
		{"truncated", "Intel(R) Core(TM) i7", 8, "Intel(R…"},
		{"multibyte", "31.2°C°C°C", 6, "31.2°…"},
		{"no limit", "anything", 0, "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shorten(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("shorten(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestRenderSections(t *testing.T) {
	sections := []present.Section{
		{
			Key:      present.KeyOverview,
			Title:    "Device Overview",
			Expanded: true,
			Items: []present.Item{
				{Label: "Manufacturer", Value: "LENOVO"},
				{Label: "Model", Value: facts.Unknown},
			},
		},
		{
			Key:   present.KeyPower,
			Title: "Power",
			Items: []present.Item{{Label: "Battery Level", Value: "82%"}},
		},
		{Key: present.KeySensors, Title: "Sensors (0)", Expanded: true},
	}

	got := renderSections(sections, 1, 80)

	for _, want := range []string{iconOverview + " Device Overview", "Manufacturer", "LENOVO", iconPower + " Power", "Nothing reported"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderSections() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "82%") {
		t.Error("renderSections() shows items of a collapsed section")
	}
	if !strings.Contains(got, "› "+iconPower) {
		t.Errorf("renderSections() cursor not on Power:\n%s", got)
	}
}

func TestRenderError(t *testing.T) {
	got := renderError("collection failed: boom")
	if !strings.Contains(got, "collection failed: boom") || !strings.Contains(got, "press r to retry") {
		t.Errorf("renderError() = %q", got)
	}
}

func TestRenderHelp(t *testing.T) {
	got := renderHelp(defaultKeyMap.bindings())
	for _, want := range []string{"enter expand", "r refresh", "q quit"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderHelp() missing %q: %q", want, got)
		}
	}
}
