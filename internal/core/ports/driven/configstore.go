package driven

// ConfigStore holds the project settings read from annlib.toml, annlib.yaml
// or annlib.yml. Keys are dotted paths into the file's tables, for example
// "processor.source_roots", "journal.path" or "watch.debounce".
type ConfigStore interface {
	// Get returns the raw value under key and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns the value of a key such as "journal.backend",
	// or "" when it is unset or not a string.
	GetString(key string) string

	// GetInt returns 0 when the key is unset or not a whole number.
	GetInt(key string) int

	GetBool(key string) bool

	// GetStringSlice returns list keys such as "processor.include".
	// TOML arrays and YAML sequences both decode to a slice; nil when unset.
	GetStringSlice(key string) []string

	// Set updates key in memory and writes the file.
	Set(key string, value any) error

	// Save writes every key back, nesting dotted keys into tables.
	Save() error

	// Load rereads the file. A missing file leaves the store empty.
	Load() error

	// Path is the settings file in use, or where annlib.toml would be created.
	Path() string
}
