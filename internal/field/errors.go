package field

import "errors"

var (
	// ErrUnknownTheme indicates a theme name other than "dark" or "light".
	ErrUnknownTheme = errors.New("field: unknown theme")

	// ErrInvalidConfig indicates field parameters that cannot produce a field.
	ErrInvalidConfig = errors.New("field: invalid config")
)
