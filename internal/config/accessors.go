package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/als-astro/als/internal/logging"
)

// Geometry is the main window placement in screen pixels.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String returns the stored form, "x,y,width,height".
func (g Geometry) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", g.X, g.Y, g.Width, g.Height)
}

// ParseGeometry parses "x,y,width,height". Exactly four integers are
// required; whitespace around each is ignored.
func ParseGeometry(raw string) (Geometry, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return Geometry{}, fmt.Errorf("window geometry %q: want 4 comma-separated integers, got %d fields", raw, len(parts))
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Geometry{}, fmt.Errorf("window geometry %q: field %d: %w", raw, i+1, err)
		}
		v[i] = n
	}
	return Geometry{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func (s *Settings) ScanFolderPath() string {
	return s.Get(KeyScanFolderPath)
}

func (s *Settings) SetScanFolderPath(path string) {
	s.Set(KeyScanFolderPath, path)
}

func (s *Settings) WorkFolderPath() string {
	return s.Get(KeyWorkFolderPath)
}

func (s *Settings) SetWorkFolderPath(path string) {
	s.Set(KeyWorkFolderPath, path)
}

// LogLevel returns the configured log level, INFO if the stored name is not
// recognized.
func (s *Settings) LogLevel() logging.Level {
	raw := s.Get(KeyLogLevel)
	l, err := logging.ParseLevel(raw)
	if err != nil {
		logger().Warn("stored log level is not recognized, using INFO", "value", raw)
		return logging.LevelInfo
	}
	return l
}

func (s *Settings) SetLogLevel(l logging.Level) {
	s.Set(KeyLogLevel, l.String())
}

// IsDebugLogOn reports whether the log level is DEBUG.
func (s *Settings) IsDebugLogOn() bool {
	return s.LogLevel() == logging.LevelDebug
}

// SetDebugLog selects DEBUG when on, INFO otherwise. Turning debug off
// replaces any other stored level with INFO.
func (s *Settings) SetDebugLog(on bool) {
	if on {
		s.SetLogLevel(logging.LevelDebug)
		return
	}
	s.SetLogLevel(logging.LevelInfo)
}

// WWWServerPort returns the configured web server port. A stored value that
// is not an integer yields DefaultPort. No range check is applied.
func (s *Settings) WWWServerPort() int {
	raw := s.Get(KeyWWWServerPort)
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logger().Warn("stored web server port is not a number, using default", "value", raw, "default", DefaultPort)
		return DefaultPort
	}
	return port
}

func (s *Settings) SetWWWServerPort(port int) {
	s.Set(KeyWWWServerPort, strconv.Itoa(port))
}

// WindowGeometry returns the stored main window geometry, or the default
// one if the stored value does not hold four integers.
func (s *Settings) WindowGeometry() Geometry {
	raw := s.Get(KeyWindowGeometry)
	g, err := ParseGeometry(raw)
	if err != nil {
		logger().Warn("stored window geometry is malformed, using default", "value", raw, "error", err)
		return defaultGeometry
	}
	return g
}

func (s *Settings) SetWindowGeometry(g Geometry) {
	s.Set(KeyWindowGeometry, g.String())
}
