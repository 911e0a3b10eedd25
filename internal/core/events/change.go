package events

import (
	"slices"
	"time"

	"github.com/zeusync/timeline/internal/core/models"
)

// Event types published by the composition.
const (
	TypeChanged = "composition.changed"
	TypeUndone  = "composition.undone"
	TypeLoaded  = "composition.loaded"
)

// SourceComposition is the Source of every composition event.
const SourceComposition = "composition"

// Composition-wide settings a change may touch.
const (
	SettingLayout  = "layout"
	SettingFilters = "filters"
)

// AllSettings lists every setting name.
func AllSettings() []string { return []string{SettingLayout, SettingFilters} }

// Change describes one committed write. Kinds lists the entity collections it
// touched and Settings the composition-wide settings.
type Change struct {
	Version  uint64        `json:"version"`
	Command  string        `json:"command"`
	Kinds    []models.Kind `json:"kinds,omitempty"`
	Settings []string      `json:"settings,omitempty"`
	IDs      []models.ID   `json:"ids,omitempty"`
}

// ChangeEvent carries a Change through the bus.
type ChangeEvent struct {
	typ    string
	at     time.Time
	Change Change
}

// NewChange builds a composition event of the given type.
func NewChange(typ string, change Change) ChangeEvent {
	return ChangeEvent{typ: typ, at: time.Now(), Change: change}
}

func (e ChangeEvent) Type() string         { return e.typ }
func (e ChangeEvent) Source() string       { return SourceComposition }
func (e ChangeEvent) Timestamp() time.Time { return e.at }
func (e ChangeEvent) Data() any            { return e.Change }

// ChangeOf extracts the Change carried by an event.
func ChangeOf(event Event) (Change, bool) {
	switch e := event.(type) {
	case ChangeEvent:
		return e.Change, true
	case *ChangeEvent:
		return e.Change, true
	}
	c, ok := event.Data().(Change)
	return c, ok
}

// Touches reports whether the change affected the given collection.
func (c Change) Touches(kind models.Kind) bool {
	for _, k := range c.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ChangesSetting reports whether the change affected the named setting.
func (c Change) ChangesSetting(name string) bool {
	return slices.Contains(c.Settings, name)
}
