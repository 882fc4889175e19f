package facts

import (
	"context"
	"log/slog"
)

type DisplayProbe struct {
	src DisplaySource
	log *slog.Logger
}

func NewDisplayProbe(src DisplaySource, log *slog.Logger) *DisplayProbe {
	return &DisplayProbe{src: src, log: discardIfNil(log)}
}

func (p *DisplayProbe) Run(ctx context.Context) Display {
	out := UnknownDisplay()
	if p.src == nil {
		return out
	}
	m, err := p.src.Display(ctx)
	if err != nil {
		p.log.Debug("display unavailable", "err", err)
		return out
	}

	if m.WidthPx > 0 && m.HeightPx > 0 {
		out.Width, out.Height = m.WidthPx, m.HeightPx
		out.Resolution = FormatResolution(m.WidthPx, m.HeightPx)
		out.Orientation = orientation(m.WidthPx, m.HeightPx)
	}
	if m.DPI > 0 {
		out.Density = m.DPI
		out.DensityClass = DensityClass(m.DPI)
	}
	if m.RefreshHz > 0 {
		out.RefreshRate = m.RefreshHz
	}
	out.Size = ScreenDiagonal(m.WidthPx, m.HeightPx, m.DPI)
	out.Connector = orUnknown(m.Connector)
	return out
}

func orientation(width, height int) string {
	switch {
	case width > height:
		return "Landscape"
	case height > width:
		return "Portrait"
	default:
		return "Square"
	}
}
