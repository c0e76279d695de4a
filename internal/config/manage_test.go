package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestEveryKeyHasDefault(t *testing.T) {
	setHome(t)
	seen := make(map[string]bool)
	for _, k := range Keys() {
		if k.String() == "" {
			t.Errorf("key %d has no name", int(k))
		}
		if seen[k.String()] {
			t.Errorf("duplicate key name %s", k)
		}
		seen[k.String()] = true
		if specs[k].def == nil || DefaultFor(k) == "" {
			t.Errorf("key %s has no default", k)
		}
		if _, err := normalizeStored(k, DefaultFor(k)); err != nil {
			t.Errorf("default for %s does not validate: %v", k, err)
		}
	}
	if len(Keys()) != 5 {
		t.Errorf("Keys() has %d entries, want 5", len(Keys()))
	}
}

func TestParseKey(t *testing.T) {
	for _, k := range Keys() {
		got, err := ParseKey(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKey(%q) = %v, %v", k.String(), got, err)
		}
	}
	if got, err := ParseKey(" WWW_Server_Port "); err != nil || got != KeyWWWServerPort {
		t.Errorf("ParseKey with case and space = %v, %v", got, err)
	}
	if _, err := ParseKey("theme"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("ParseKey(theme) error = %v, want ErrUnknownKey", err)
	}
	if got := Key(99).String(); got != "Key(99)" {
		t.Errorf("Key(99).String() = %q", got)
	}
}

func TestValidateValue(t *testing.T) {
	home := setHome(t)
	tests := []struct {
		name    string
		key     Key
		in      string
		want    string
		wantErr bool
	}{
		{"port", KeyWWWServerPort, "8080", "8080", false},
		{"port lower bound", KeyWWWServerPort, "1024", "1024", false},
		{"port upper bound", KeyWWWServerPort, "65535", "65535", false},
		{"port leading zeros", KeyWWWServerPort, "09000", "9000", false},
		{"port too low", KeyWWWServerPort, "1023", "", true},
		{"port too high", KeyWWWServerPort, "65536", "", true},
		{"port negative", KeyWWWServerPort, "-8000", "", true},
		{"port not a number", KeyWWWServerPort, "http", "", true},
		{"port huge", KeyWWWServerPort, "99999999999999999999999", "", true},
		{"level", KeyLogLevel, "warning", "WARNING", false},
		{"level unknown", KeyLogLevel, "TRACE", "", true},
		{"geometry", KeyWindowGeometry, "1, 2, 3, 4", "1,2,3,4", false},
		{"geometry short", KeyWindowGeometry, "1,2", "", true},
		{"path", KeyScanFolderPath, "/data/scan", "/data/scan", false},
		{"path home", KeyWorkFolderPath, "~/stack", filepath.Join(home, "stack"), false},
		{"path empty", KeyWorkFolderPath, "  ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateValue(tt.key, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateValue(%s, %q) error = %v, wantErr %v", tt.key, tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("error = %v, want ErrInvalidValue", err)
			}
			if got != tt.want {
				t.Errorf("ValidateValue(%s, %q) = %q, want %q", tt.key, tt.in, got, tt.want)
			}
		})
	}
}

func TestSetKey(t *testing.T) {
	setHome(t)
	s := emptySettings(t)

	k, err := SetKey(s, "www_server_port", "8765")
	if err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if k != KeyWWWServerPort || s.WWWServerPort() != 8765 {
		t.Errorf("SetKey applied %v, port now %d", k, s.WWWServerPort())
	}

	if _, err := SetKey(s, "www_server_port", "80"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetKey out of range error = %v", err)
	}
	if s.WWWServerPort() != 8765 {
		t.Errorf("rejected value applied: port = %d", s.WWWServerPort())
	}

	if _, err := SetKey(s, "colour", "blue"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("SetKey unknown key error = %v", err)
	}
}

func TestShowAll(t *testing.T) {
	setHome(t)
	s := emptySettings(t)
	s.SetDebugLog(true)

	infos := ShowAll(s)
	if len(infos) != len(Keys()) {
		t.Fatalf("ShowAll returned %d entries, want %d", len(infos), len(Keys()))
	}
	for i, info := range infos {
		k := Keys()[i]
		if info.Key != k.String() {
			t.Errorf("entry %d key = %q, want %q", i, info.Key, k)
		}
		wantOverridden := k == KeyLogLevel
		if info.Overridden != wantOverridden {
			t.Errorf("%s overridden = %v, want %v", k, info.Overridden, wantOverridden)
		}
		if info.Default != DefaultFor(k) {
			t.Errorf("%s default = %q", k, info.Default)
		}
	}
	if infos[KeyLogLevel].Value != "DEBUG" {
		t.Errorf("log_level value = %q, want DEBUG", infos[KeyLogLevel].Value)
	}
	if got := Describe(s, KeyLogLevel); got != infos[KeyLogLevel] {
		t.Errorf("Describe = %+v, want %+v", got, infos[KeyLogLevel])
	}
}
