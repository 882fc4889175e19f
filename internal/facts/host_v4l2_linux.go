//go:build linux

package facts

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	vidiocEnumFmt        = 0xc0405602 // _IOWR('V', 2, struct v4l2_fmtdesc)
	vidiocEnumFramesizes = 0xc02c564a // _IOWR('V', 74, struct v4l2_frmsizeenum)

	v4l2BufTypeVideoCapture = 1
	v4l2FrmSizeTypeDiscrete = 1
)

type v4l2FmtDesc struct {
	index       uint32
	typ         uint32
	flags       uint32
	description [32]byte
	pixelFormat uint32
	mbusCode    uint32
	reserved    [3]uint32
}

// v4l2FrmSizeEnum mirrors struct v4l2_frmsizeenum. The union holds either
// {width, height} or {min_w, max_w, step_w, min_h, max_h, step_h}.
type v4l2FrmSizeEnum struct {
	index       uint32
	pixelFormat uint32
	typ         uint32
	union       [6]uint32
	reserved    [2]uint32
}

// v4l2Cameras adds frame-size enumeration over the V4L2 ioctl interface to
// the sysfs camera list.
type v4l2Cameras struct {
	video4linuxCameras
	devRoot string
}

func cameraSource(fs sysfs, devRoot string) CameraSource {
	return v4l2Cameras{video4linuxCameras: video4linuxCameras{fs: fs}, devRoot: devRoot}
}

func v4l2Ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// FrameSizes lists the capture sizes of every pixel format the device offers.
// Stepwise and continuous ranges contribute their maximum size.
func (v v4l2Cameras) FrameSizes(ctx context.Context, id string) ([]FrameSize, error) {
	path := filepath.Join(v.devRoot, id)
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	var sizes []FrameSize
	for fi := uint32(0); ; fi++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		desc := v4l2FmtDesc{index: fi, typ: v4l2BufTypeVideoCapture}
		if err := v4l2Ioctl(fd, vidiocEnumFmt, unsafe.Pointer(&desc)); err != nil {
			if errors.Is(err, unix.EINVAL) {
				break
			}
			return nil, fmt.Errorf("VIDIOC_ENUM_FMT on %s: %w", path, err)
		}

		for si := uint32(0); ; si++ {
			fs := v4l2FrmSizeEnum{index: si, pixelFormat: desc.pixelFormat}
			if err := v4l2Ioctl(fd, vidiocEnumFramesizes, unsafe.Pointer(&fs)); err != nil {
				break
			}
			if fs.typ != v4l2FrmSizeTypeDiscrete {
				sizes = append(sizes, FrameSize{Width: int(fs.union[1]), Height: int(fs.union[4])})
				break
			}
			sizes = append(sizes, FrameSize{Width: int(fs.union[0]), Height: int(fs.union[1])})
		}
	}
	return sizes, nil
}
