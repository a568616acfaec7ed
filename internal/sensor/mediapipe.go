package sensor

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/dwellpoint/internal/skeleton"
)

// trackerIdleTimeout is how long the service may sit unused before it is shut down.
const trackerIdleTimeout = 30 * time.Second

// MediaPipeTracker finds hands by talking to a Python MediaPipe service over pipes.
//
// Each request is a JPEG frame prefixed with its 4-byte big-endian length.
// Each response is one JSON line:
//
//	{"hands":[{"points":[{"x":..,"y":..,"z":..}, ...21],"handedness":"Right","score":0.97}]}
type MediaPipeTracker struct {
	script string
	python string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	idle   *time.Timer
}

// NewMediaPipeTracker locates the service script. The process starts lazily on the first Track.
func NewMediaPipeTracker() (*MediaPipeTracker, error) {
	script := findFile(
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
		filepath.Join(executableDir(), "scripts/mediapipe_service.py"),
		filepath.Join(os.Getenv("HOME"), ".dwellpoint/scripts/mediapipe_service.py"),
	)
	if script == "" {
		return nil, fmt.Errorf("mediapipe_service.py not found")
	}

	// Use virtual environment Python if available
	python := findFile(
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(executableDir(), "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".dwellpoint/venv/bin/python"),
	)
	if python == "" {
		python = "python3"
	}

	return &MediaPipeTracker{script: script, python: python}, nil
}

// Track sends frame to the service and returns the hands it found.
func (t *MediaPipeTracker) Track(frame *gocv.Mat) ([]Hand, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.start(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// Write length (4 bytes big-endian) + data
	data := buf.GetBytes()
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	if _, err := t.stdin.Write(header); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := t.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	// Read one JSON line back
	line, err := t.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	hands, err := parseTrackerResponse(line)
	if err != nil {
		return nil, err
	}

	// Keep the service alive while frames keep coming
	t.touch()
	return hands, nil
}

// Close stops the service process if it is running.
func (t *MediaPipeTracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shutdown()
}

func (t *MediaPipeTracker) start() error {
	if t.cmd != nil {
		return nil
	}

	cmd := exec.Command(t.python, t.script)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	// Pass service errors through for debugging
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	t.cmd = cmd
	t.stdin = stdin
	t.stdout = bufio.NewReader(stdout)
	return nil
}

func (t *MediaPipeTracker) shutdown() error {
	if t.cmd == nil {
		return nil
	}
	if t.idle != nil {
		t.idle.Stop()
		t.idle = nil
	}
	// Closing stdin makes the service exit its read loop
	t.stdin.Close()

	err := t.cmd.Wait()
	t.cmd = nil
	t.stdin = nil
	t.stdout = nil
	return err
}

// touch restarts the idle shutdown countdown. Caller holds t.mu.
func (t *MediaPipeTracker) touch() {
	if t.idle != nil {
		t.idle.Stop()
	}
	t.idle = time.AfterFunc(trackerIdleTimeout, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.shutdown()
	})
}

type trackerResponse struct {
	Hands []struct {
		Points     []skeleton.Point3D `json:"points"`
		Handedness string             `json:"handedness"`
		Score      float64            `json:"score"`
	} `json:"hands"`
}

// parseTrackerResponse decodes one service response line into hands.
// Hands without a palm landmark are dropped.
func parseTrackerResponse(line []byte) ([]Hand, error) {
	var resp trackerResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]Hand, 0, len(resp.Hands))
	for _, h := range resp.Hands {
		if len(h.Points) <= palmLandmark {
			continue
		}
		hands = append(hands, Hand{
			Handedness: h.Handedness,
			Palm:       h.Points[palmLandmark],
			Score:      h.Score,
		})
	}
	return hands, nil
}

func executableDir() string {
	path, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(path)
}

// findFile returns the absolute path of the first candidate that exists, or "".
func findFile(candidates ...string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}
