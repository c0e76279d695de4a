package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Key identifies one recognized setting. The set of keys is closed.
type Key int

const (
	KeyScanFolderPath Key = iota
	KeyWorkFolderPath
	KeyLogLevel
	KeyWWWServerPort
	KeyWindowGeometry

	numKeys
)

// DefaultPort is the web server port used when none is configured or the
// stored one cannot be parsed.
const DefaultPort = 8000

var defaultGeometry = Geometry{X: 50, Y: 100, Width: 1024, Height: 800}

type keyType int

const (
	kPath keyType = iota
	kLevel
	kPort
	kGeometry
)

type keySpec struct {
	name string
	typ  keyType
	help string
	def  func() string
}

var specs = [numKeys]keySpec{
	KeyScanFolderPath: {
		name: "scan_folder_path", typ: kPath,
		help: "folder watched for new raw images",
		def:  func() string { return homePath("als", "scan") },
	},
	KeyWorkFolderPath: {
		name: "work_folder_path", typ: kPath,
		help: "folder receiving stacking results",
		def:  func() string { return homePath("als", "work") },
	},
	KeyLogLevel: {
		name: "log_level", typ: kLevel,
		help: "DEBUG, INFO, WARNING, ERROR or CRITICAL",
		def:  func() string { return "INFO" },
	},
	KeyWWWServerPort: {
		name: "www_server_port", typ: kPort,
		help: "web server port, 1024 to 65535",
		def:  func() string { return strconv.Itoa(DefaultPort) },
	},
	KeyWindowGeometry: {
		name: "window_geometry", typ: kGeometry,
		help: "main window x,y,width,height",
		def:  func() string { return defaultGeometry.String() },
	},
}

// ErrUnknownKey is returned when a setting name is not recognized.
var ErrUnknownKey = errors.New("unknown setting")

// String returns the name the key is stored under.
func (k Key) String() string {
	if !k.valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return specs[k].name
}

// Help returns a one-line description of the setting.
func (k Key) Help() string {
	if !k.valid() {
		return ""
	}
	return specs[k].help
}

func (k Key) valid() bool {
	return k >= 0 && k < numKeys
}

// Keys returns every recognized key in declaration order.
func Keys() []Key {
	keys := make([]Key, 0, numKeys)
	for k := Key(0); k < numKeys; k++ {
		keys = append(keys, k)
	}
	return keys
}

// ParseKey maps a stored setting name to its key. Names are case-insensitive.
func ParseKey(name string) (Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k := Key(0); k < numKeys; k++ {
		if specs[k].name == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// DefaultFor returns the compiled-in raw value of a key.
func DefaultFor(k Key) string {
	return specs[k].def()
}
