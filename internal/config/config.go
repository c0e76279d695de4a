// Package config owns ALS user settings: the closed set of recognized keys
// and their defaults, the ~/.als.cfg file, and typed accessors over the
// user's overrides.
package config

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/als-astro/als/internal/logging"
)

// Section maps keys to raw overrides. A missing key means the default
// applies.
type Section map[Key]string

func (s Section) clone() Section {
	c := make(Section, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Settings holds the user's overrides in memory. It is created once by the
// application's composition root and shared by pointer; changes reach disk
// only through Save.
type Settings struct {
	mu      sync.Mutex
	backend Backend
	section Section
	pruned  []string
}

func logger() *slog.Logger {
	return logging.Named("als.config")
}

// Load reads ~/.als.cfg.
func Load() (*Settings, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the settings file at path.
func LoadFrom(path string) (*Settings, error) {
	return Open(NewFileBackend(path))
}

// Open reads b and keeps the recognized, valid overrides. A missing store
// yields empty settings; a malformed one is returned as an error wrapping
// ErrMalformed and must abort startup.
func Open(b Backend) (*Settings, error) {
	raw, err := b.Read()
	if err != nil {
		return nil, err
	}
	s := &Settings{backend: b, section: make(Section)}
	s.absorb(raw)
	return s, nil
}

// absorb copies raw values into the section, dropping names that are no
// longer recognized and values that would not convert.
func (s *Settings) absorb(raw map[string]string) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			s.pruned = append(s.pruned, name)
			continue
		}
		v, err := normalizeStored(k, raw[name])
		if err != nil {
			logger().Warn("discarding invalid stored value, default applies", "option", name, "value", raw[name], "error", err)
			continue
		}
		s.section[k] = v
	}
}

// normalizeStored checks values whose typed getters cannot fall back
// gracefully. Ports are left alone: WWWServerPort handles bad input itself.
func normalizeStored(k Key, v string) (string, error) {
	switch specs[k].typ {
	case kLevel:
		l, err := logging.ParseLevel(v)
		if err != nil {
			return "", err
		}
		return l.String(), nil
	case kGeometry:
		if _, err := ParseGeometry(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

// Path returns the location settings are saved to.
func (s *Settings) Path() string {
	return s.backend.Path()
}

// Get returns the effective raw value of k: the override if one is stored,
// otherwise the default.
func (s *Settings) Get(k Key) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(k)
}

func (s *Settings) get(k Key) string {
	if v, ok := s.section[k]; ok {
		return v
	}
	return DefaultFor(k)
}

// Set stores raw for k unless it equals the current effective value.
// Setting a key back to its default keeps the override entry.
func (s *Settings) Set(k Key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw == s.get(k) {
		return
	}
	s.section[k] = raw
}

// Pruned returns the unrecognized option names dropped at load, sorted.
func (s *Settings) Pruned() []string {
	return append([]string(nil), s.pruned...)
}

// Section returns a copy of the current overrides.
func (s *Settings) Section() Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.section.clone()
}

// Save writes the overrides to the backend. On failure the in-memory state
// is kept and the error is returned for the caller to surface.
func (s *Settings) Save() error {
	snapshot := s.Section()
	if err := s.backend.Write(snapshot); err != nil {
		logger().Error("could not save settings", "path", s.backend.Path(), "error", err)
		return fmt.Errorf("saving settings to %s: %w", s.backend.Path(), err)
	}
	logger().Info("user configuration saved", "path", s.backend.Path())
	return nil
}

// Dump logs the options pruned at load and every effective value at DEBUG.
// Loading happens before logging is set up, so pruning is reported here.
func (s *Settings) Dump() {
	log := logger()
	for _, name := range s.pruned {
		log.Debug("removed obsolete config option", "option", name)
	}
	log.Debug("user config dump - START")
	for _, k := range Keys() {
		log.Debug(fmt.Sprintf("%s = %s", k, s.Get(k)))
	}
	log.Debug("user config dump - END")
}
