package enums

import "fmt"

// ViewMode is the dashboard catalog layout preference stored per member.
type ViewMode string

const (
	ViewModeGrid ViewMode = "grid"
	ViewModeList ViewMode = "list"
)

// IsValid reports whether the view mode is recognized.
func (v ViewMode) IsValid() bool {
	return v == ViewModeGrid || v == ViewModeList
}

// ParseViewMode converts a raw string into a ViewMode.
func ParseViewMode(value string) (ViewMode, error) {
	mode := ViewMode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid view mode %q", value)
	}
	return mode, nil
}
