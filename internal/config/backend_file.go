package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// mainSection is the only section read from or written to the file.
const mainSection = "main"

// ErrMalformed is returned when the settings file exists but cannot be
// trusted: duplicate options or sections, or unparsable lines.
var ErrMalformed = errors.New("malformed settings file")

// fileBackend stores settings as an INI file with a single [main] section.
type fileBackend struct {
	path string
}

// NewFileBackend returns a backend reading and writing the INI file at path.
func NewFileBackend(path string) Backend {
	return &fileBackend{path: path}
}

func (b *fileBackend) Path() string {
	return b.path
}

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		InsensitiveKeys:            true,
		AllowShadows:               true,
		AllowDuplicateShadowValues: true,
		AllowNonUniqueSections:     true,
		IgnoreInlineComment:        true,
		// Values are taken verbatim: a trailing backslash or surrounding
		// quotes are part of the path.
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
	}
}

func (b *fileBackend) Read() (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", b.path, err)
	}
	return parseMain(b.path, data)
}

// parseMain extracts the main section. Shadowed keys and repeated sections
// are how ini reports duplicates once it is told to keep them.
func parseMain(path string, data []byte) (map[string]string, error) {
	f, err := ini.LoadSources(loadOptions(), data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformed, path, err)
	}

	if name, ok := optionBeforeHeader(data); ok {
		return nil, fmt.Errorf("%w %s: option %q appears before any section header", ErrMalformed, path, name)
	}

	values := make(map[string]string)
	seen := make(map[string]bool)
	for _, sec := range f.Sections() {
		name := sec.Name()
		if seen[name] && name != ini.DefaultSection {
			return nil, fmt.Errorf("%w %s: section %q already exists", ErrMalformed, path, name)
		}
		seen[name] = true

		for _, key := range sec.Keys() {
			if len(key.ValueWithShadows()) > 1 {
				return nil, fmt.Errorf("%w %s: option %q in section %q already exists", ErrMalformed, path, key.Name(), name)
			}
		}
		if name != mainSection {
			if len(sec.Keys()) > 0 {
				logger().Debug("ignoring settings section", "section", name)
			}
			continue
		}
		for _, key := range sec.Keys() {
			values[key.Name()] = key.Value()
		}
	}
	return values, nil
}

// optionBeforeHeader reports the first option found before any section
// header. ini files those under DEFAULT together with an explicit [DEFAULT]
// section, so the raw lines are checked.
func optionBeforeHeader(data []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			return "", false
		}
		name, _, _ := strings.Cut(line, "=")
		name, _, _ = strings.Cut(name, ":")
		return strings.ToLower(strings.TrimSpace(name)), true
	}
	return "", false
}

func (b *fileBackend) Write(section Section) error {
	f := ini.Empty(loadOptions())
	sec, err := f.NewSection(mainSection)
	if err != nil {
		return err
	}
	for _, k := range Keys() {
		v, ok := section[k]
		if !ok {
			continue
		}
		if _, err := sec.NewKey(k.String(), v); err != nil {
			return fmt.Errorf("encoding %s: %w", k, err)
		}
	}
	if err := f.SaveTo(b.path); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
