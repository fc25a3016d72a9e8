package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation ("history.max_depth"); implementations map them
// onto their file format.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if absent or not a string.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if absent or not numeric.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false if absent or not a boolean.
	GetBool(key string) bool

	// Set stores a value in memory. Call Save to persist it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from storage. A missing file is not an error.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
