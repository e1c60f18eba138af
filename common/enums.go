// Package common keeps enums shared between configuration and processing
// packages so neither has to import the other.
package common

// Display mode of rendered transcription.
// ENUM(expanded, abbreviated)
type DisplayMode int

// RecordField returns name of the page record field holding html rendered for
// this mode.
func (m DisplayMode) RecordField() string {
	switch m {
	case DisplayModeExpanded:
		return "html"
	case DisplayModeAbbreviated:
		return "html_abbrev"
	default:
		// this should never happen
		panic("unsupported display mode requested")
	}
}

// Expanded is a shortcut used by renderer handlers.
func (m DisplayMode) Expanded() bool {
	return m == DisplayModeExpanded
}
