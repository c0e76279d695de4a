// Package logging installs the process-wide log threshold from the persisted
// log level and formats records as "time - LEVEL - source - message".
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Level is one of the five persisted log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

// SlogCritical is the slog level used for CRITICAL records.
const SlogCritical = slog.Level(12)

var levelNames = [...]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

var slogLevels = [...]slog.Level{
	LevelDebug:    slog.LevelDebug,
	LevelInfo:     slog.LevelInfo,
	LevelWarning:  slog.LevelWarn,
	LevelError:    slog.LevelError,
	LevelCritical: SlogCritical,
}

func (l Level) valid() bool {
	return l >= LevelDebug && l <= LevelCritical
}

// String returns the stored name of the level, e.g. "WARNING".
func (l Level) String() string {
	if !l.valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Slog maps the level onto the slog severity scale.
func (l Level) Slog() slog.Level {
	if !l.valid() {
		return slog.LevelInfo
	}
	return slogLevels[l]
}

// Levels returns all levels from most to least verbose.
func Levels() []Level {
	return []Level{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}
}

// ParseLevel parses a level name. Matching ignores case and surrounding space.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, l := range Levels() {
		if levelNames[l] == name {
			return l, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (want one of %s)", s, strings.Join(levelNames[:], ", "))
}

// SourceKey is the attribute carrying a logger's source name.
const SourceKey = "logger"

// NoisySources are log sources held at WARNING regardless of the global
// threshold.
var NoisySources = []string{
	"http.access",
	"mcp.transport",
}

var setupOnce sync.Once

// Setup installs the default slog logger writing to w at the given
// threshold. Only the first call has an effect.
func Setup(w io.Writer, level Level) {
	setupOnce.Do(func() {
		slog.SetDefault(slog.New(NewHandler(w, level, NoisySources)))
	})
}

// Named returns the default logger tagged with a source name.
func Named(name string) *slog.Logger {
	return slog.Default().With(SourceKey, name)
}
