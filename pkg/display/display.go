package display

import (
	"time"
)

type Kind string

const (
	KindEvent    Kind = "event"
	KindCleaning Kind = "cleaning"
)

// DisplayEvent is the renderer-agnostic projection of calendar data. End is
// exclusive. A set of DisplayEvents is always replaced as a whole, never
// patched.
type DisplayEvent struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	TextColor string    `json:"textColor,omitempty"`
	// Calendar is the owning calendar id, used to look it up for export.
	Calendar string `json:"calendar"`
	Id       *int   `json:"id,omitempty"`
	Kind     Kind   `json:"kind"`
	// Invalid marks events whose dates could not be parsed. Start and End are
	// left zero so the problem stays visible instead of being dropped.
	Invalid bool `json:"invalid,omitempty"`
}

// Palette is order-significant: calendar id n always maps to Palette[n mod len].
var Palette = []string{
	"#BDB2FF",
	"#AEDCF9",
	"#FFD6A5",
	"#CAFFBF",
	"#A0C4FF",
	"#FFADAD",
	"#FDFFB6",
	"#FFC6FF",
}

const (
	CleaningColor     = "#ffe5ec"
	CleaningTextColor = "#000"
	CleaningLabel     = "🧼 Cleaning time"
)

// ColorFor returns the palette index for calendar id.
func ColorFor(id, paletteSize int) int {
	if paletteSize <= 0 {
		return 0
	}
	return ((id % paletteSize) + paletteSize) % paletteSize
}
