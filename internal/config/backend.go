package config

// Backend persists the settings section. The file backend is the only
// production implementation; tests substitute their own.
type Backend interface {
	// Path names the storage location for messages.
	Path() string
	// Read returns stored name/value pairs. A missing store yields an
	// empty map and no error.
	Read() (map[string]string, error)
	// Write replaces the stored section.
	Write(section Section) error
}
