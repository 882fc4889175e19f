package facts

import (
	"context"
	"log/slog"
)

type SensorProbe struct {
	src SensorSource
	log *slog.Logger
}

func NewSensorProbe(src SensorSource, log *slog.Logger) *SensorProbe {
	return &SensorProbe{src: src, log: discardIfNil(log)}
}

func (p *SensorProbe) Run(ctx context.Context) Sensors {
	out := UnknownSensors()
	if p.src == nil {
		return out
	}
	readings, err := p.src.Sensors(ctx)
	if err != nil {
		p.log.Debug("sensors unavailable", "err", err)
		return out
	}
	for _, r := range readings {
		out.Sensors = append(out.Sensors, Sensor{
			Name:       orUnknown(r.Name),
			Type:       DecodeSensorKind(r.Kind),
			Vendor:     orUnknown(r.Vendor),
			Resolution: r.Resolution,
			MaxRange:   r.MaxRange,
		})
	}
	return out
}

// CameraProbe enumerates cameras. When the source also implements
// FrameSizeSource each camera gets its largest frame size; otherwise only
// identity and facing are reported.
type CameraProbe struct {
	src CameraSource
	log *slog.Logger
}

func NewCameraProbe(src CameraSource, log *slog.Logger) *CameraProbe {
	return &CameraProbe{src: src, log: discardIfNil(log)}
}

func (p *CameraProbe) Run(ctx context.Context) Cameras {
	out := UnknownCameras()
	if p.src == nil {
		return out
	}
	devices, err := p.src.Cameras(ctx)
	if err != nil {
		p.log.Debug("cameras unavailable", "err", err)
		return out
	}

	sizer, extended := p.src.(FrameSizeSource)
	for _, d := range devices {
		cam := Camera{
			ID:     orUnknown(d.ID),
			Name:   orUnknown(d.Name),
			Facing: DecodeFacing(d.Facing),
		}
		if extended {
			sizes, err := sizer.FrameSizes(ctx, d.ID)
			if err != nil {
				p.log.Debug("camera frame sizes unavailable", "camera", d.ID, "err", err)
			} else {
				cam.Resolution = resolutionOf(sizes)
			}
		}
		out.Cameras = append(out.Cameras, cam)
	}
	return out
}

func resolutionOf(sizes []FrameSize) *CameraResolution {
	res := &CameraResolution{Megapixels: Unknown, Sizes: []string{}}
	var best FrameSize
	for _, s := range sizes {
		if s.Width <= 0 || s.Height <= 0 {
			continue
		}
		res.Sizes = append(res.Sizes, FormatResolution(s.Width, s.Height))
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	if best.Width > 0 {
		res.Megapixels = FormatMegapixels(best.Width, best.Height)
	}
	return res
}
