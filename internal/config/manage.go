package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/als-astro/als/internal/logging"
)

// Port bounds accepted from user input.
const (
	MinPort = 1024
	MaxPort = 65535
)

// ErrInvalidValue is returned when user input does not fit a setting.
var ErrInvalidValue = errors.New("invalid value")

// KeyInfo describes a setting for display purposes.
type KeyInfo struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Default    string `json:"default"`
	Overridden bool   `json:"overridden"`
	Help       string `json:"help,omitempty"`
}

// ShowAll returns every setting with its effective value.
func ShowAll(s *Settings) []KeyInfo {
	section := s.Section()
	result := make([]KeyInfo, 0, numKeys)
	for _, k := range Keys() {
		result = append(result, describe(s, section, k))
	}
	return result
}

// Describe returns display information for one setting.
func Describe(s *Settings, k Key) KeyInfo {
	return describe(s, s.Section(), k)
}

func describe(s *Settings, section Section, k Key) KeyInfo {
	_, overridden := section[k]
	return KeyInfo{
		Key:        k.String(),
		Value:      s.Get(k),
		Default:    DefaultFor(k),
		Overridden: overridden,
		Help:       k.Help(),
	}
}

// ValidKeys returns the names of all recognized settings.
func ValidKeys() []string {
	names := make([]string, 0, numKeys)
	for _, k := range Keys() {
		names = append(names, k.String())
	}
	return names
}

// ValidateValue checks user input for k and returns the form to store.
// Folder paths get "~" expanded, ports must be decimal digits within
// [MinPort, MaxPort], log levels and geometries are canonicalized.
func ValidateValue(k Key, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	switch specs[k].typ {
	case kPath:
		if v == "" {
			return "", fmt.Errorf("%w for %s: folder path must not be empty", ErrInvalidValue, k)
		}
		return expandHome(v), nil
	case kPort:
		if v == "" || strings.Trim(v, "0123456789") != "" {
			return "", fmt.Errorf("%w for %s: web server port number must be a number between %d and %d", ErrInvalidValue, k, MinPort, MaxPort)
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < MinPort || n > MaxPort {
			return "", fmt.Errorf("%w for %s: web server port number must be a number between %d and %d", ErrInvalidValue, k, MinPort, MaxPort)
		}
		return strconv.Itoa(n), nil
	case kLevel:
		l, err := logging.ParseLevel(v)
		if err != nil {
			return "", fmt.Errorf("%w for %s: %v", ErrInvalidValue, k, err)
		}
		return l.String(), nil
	case kGeometry:
		g, err := ParseGeometry(v)
		if err != nil {
			return "", fmt.Errorf("%w for %s: %v", ErrInvalidValue, k, err)
		}
		return g.String(), nil
	}
	return v, nil
}

// SetKey validates raw for the named setting and applies it in memory.
// The caller decides when to Save.
func SetKey(s *Settings, name, raw string) (Key, error) {
	k, err := ParseKey(name)
	if err != nil {
		return 0, err
	}
	v, err := ValidateValue(k, raw)
	if err != nil {
		return k, err
	}
	s.Set(k, v)
	return k, nil
}
