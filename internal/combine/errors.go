package combine

import "fmt"

// ConfigurationError reports a settings value the combine run cannot work
// with. It is returned before any geometry is touched.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("combine: invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("combine: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
