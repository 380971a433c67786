package converter

import "fmt"

// SettingError reports a processor setting that has no Go translation.
type SettingError struct {
	Property string
	Value    string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.Property, e.Value)
}
