package driven

// ConfigStore holds flat, dot-keyed settings such as "brand.primary_color".
// Typed getters coerce loosely and return the zero value for missing or
// unconvertible keys.
type ConfigStore interface {
	// GetString returns the value of key as a string.
	GetString(key string) string

	// GetInt returns the value of key as an int. Booleans are not numbers.
	GetInt(key string) int

	// Update applies every change and persists them together.
	// An empty string value removes its key.
	Update(values map[string]any) error

	// Path returns where the configuration lives.
	Path() string
}
