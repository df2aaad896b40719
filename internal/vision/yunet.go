package vision

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"github.com/verte-zerg/gazegrid/internal/capture"
	"github.com/verte-zerg/gazegrid/internal/model"
)

// Eye selects which landmark is reported as the gaze position.
type Eye int

const (
	// LeftEye is the subject's left eye.
	LeftEye Eye = iota
	// RightEye is the subject's right eye.
	RightEye
	// MidEye is the midpoint between both eyes.
	MidEye
)

// ParseEye parses "left", "right" or "mid".
func ParseEye(s string) (Eye, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return LeftEye, nil
	case "right":
		return RightEye, nil
	case "mid", "both":
		return MidEye, nil
	default:
		return LeftEye, fmt.Errorf("unknown eye %q (use left, right or mid)", s)
	}
}

// DetectorConfig holds YuNet settings.
type DetectorConfig struct {
	ModelPath        string  // Path to the YuNet ONNX model
	ConfidenceThresh float64 // Minimum face score (default 0.5)
	InputWidth       int     // Initial model input width
	InputHeight      int     // Initial model input height
	Eye              Eye
	// Screen size the landmark is scaled to.
	ScreenWidth  int
	ScreenHeight int
}

// DefaultDetectorConfig returns production defaults for YuNet.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
		Eye:              LeftEye,
		ScreenWidth:      1920,
		ScreenHeight:     1080,
	}
}

// YuNet output columns: bbox (0-3), right eye (4,5), left eye (6,7),
// nose, mouth corners, score (14).
const (
	colRightEyeX = 4
	colRightEyeY = 5
	colLeftEyeX  = 6
	colLeftEyeY  = 7
	colScore     = 14
)

// YuNetDetector uses OpenCV's FaceDetectorYN to locate an eye.
type YuNetDetector struct {
	detector gocv.FaceDetectorYN
	config   DetectorConfig
	mu       sync.Mutex // Protects inference
}

// NewYuNet creates a detector; the model is loaded once and reused for
// every frame of a session.
func NewYuNet(cfg DetectorConfig) (*YuNetDetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}
	if cfg.ScreenWidth <= 0 || cfg.ScreenHeight <= 0 {
		return nil, fmt.Errorf("screen size must be > 0 (got %dx%d)", cfg.ScreenWidth, cfg.ScreenHeight)
	}

	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &YuNetDetector{
		detector: detector,
		config:   cfg,
	}, nil
}

// Factory returns a capture.DetectorFactory that builds a fresh YuNet
// detector per session.
func Factory(cfg DetectorConfig) capture.DetectorFactory {
	return func() (capture.Detector, error) {
		return NewYuNet(cfg)
	}
}

// Detect returns the configured eye of the first detected face, scaled to
// screen pixels.
func (d *YuNetDetector) Detect(f capture.Frame) (model.Position, bool, error) {
	frame, ok := f.(*Frame)
	if !ok {
		return model.Position{}, false, fmt.Errorf("unsupported frame type %T", f)
	}
	img := frame.Mat
	if img.Empty() {
		return model.Position{}, false, ErrEmptyFrame
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()

	d.detector.Detect(img, &faces)
	if faces.Rows() == 0 {
		return model.Position{}, false, nil
	}
	if float64(faces.GetFloatAt(0, colScore)) < d.config.ConfidenceThresh {
		return model.Position{}, false, nil
	}

	lx, ly := float64(faces.GetFloatAt(0, colLeftEyeX)), float64(faces.GetFloatAt(0, colLeftEyeY))
	rx, ry := float64(faces.GetFloatAt(0, colRightEyeX)), float64(faces.GetFloatAt(0, colRightEyeY))
	x, y := pickEye(d.config.Eye, lx, ly, rx, ry)
	return toScreen(x, y, img.Cols(), img.Rows(), d.config.ScreenWidth, d.config.ScreenHeight), true, nil
}

// Close releases the detector resources.
func (d *YuNetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}

func pickEye(eye Eye, lx, ly, rx, ry float64) (float64, float64) {
	switch eye {
	case RightEye:
		return rx, ry
	case MidEye:
		return (lx + rx) / 2, (ly + ry) / 2
	default:
		return lx, ly
	}
}

// toScreen scales a frame pixel to screen pixels, truncating toward zero.
func toScreen(x, y float64, frameW, frameH, screenW, screenH int) model.Position {
	if frameW <= 0 || frameH <= 0 {
		return model.Position{}
	}
	return model.Position{
		X: int(x * float64(screenW) / float64(frameW)),
		Y: int(y * float64(screenH) / float64(frameH)),
	}
}
