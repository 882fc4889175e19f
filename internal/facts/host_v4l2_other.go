//go:build !linux

package facts

// Frame-size enumeration needs the V4L2 ioctls, so other platforms only get
// the device list.
func cameraSource(fs sysfs, devRoot string) CameraSource {
	return video4linuxCameras{fs: fs}
}
