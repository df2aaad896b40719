// Package vision provides OpenCV-backed frame capture and eye detection.
package vision

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/verte-zerg/gazegrid/internal/capture"
)

// ErrEmptyFrame is returned when the device delivers no image.
var ErrEmptyFrame = errors.New("empty frame")

// CameraConfig holds capture device settings.
type CameraConfig struct {
	DeviceID int
	Width    int // Requested frame width, 0 keeps the device default
	Height   int // Requested frame height, 0 keeps the device default
	Mirror   bool
}

// Frame wraps an OpenCV matrix.
type Frame struct {
	Mat gocv.Mat
}

// Close releases the matrix.
func (f *Frame) Close() error {
	return f.Mat.Close()
}

// Camera reads frames from a local video device.
type Camera struct {
	cfg CameraConfig
	vc  *gocv.VideoCapture
	mu  sync.Mutex
}

// OpenCamera opens the capture device.
func OpenCamera(cfg CameraConfig) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.DeviceID, err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("open camera %d: device unavailable", cfg.DeviceID)
	}
	if cfg.Width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	return &Camera{cfg: cfg, vc: vc}, nil
}

// Read grabs the next frame, mirrored when configured.
func (c *Camera) Read(ctx context.Context) (capture.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	mat := gocv.NewMat()
	if ok := c.vc.Read(&mat); !ok {
		_ = mat.Close()
		return nil, fmt.Errorf("read camera %d: device closed", c.cfg.DeviceID)
	}
	if mat.Empty() {
		_ = mat.Close()
		return nil, ErrEmptyFrame
	}
	if c.cfg.Mirror {
		gocv.Flip(mat, &mat, 1)
	}
	return &Frame{Mat: mat}, nil
}

// Close releases the device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vc.Close()
}
