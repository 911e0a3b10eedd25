package composition

import (
	"reflect"

	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
)

// State is the full composition handed to the renderer.
type State struct {
	Layout    layout.Layout            `json:"layout"`
	Filters   models.FilterParams      `json:"filters"`
	Segments  []models.Segment         `json:"segments"`
	Texts     []models.TextOverlay     `json:"textOverlays"`
	Shapes    []models.ShapeOverlay    `json:"shapeOverlays"`
	Images    []models.ImageOverlay    `json:"imageOverlays"`
	Gradients []models.GradientOverlay `json:"gradientOverlays"`
	Effects   []models.Effect          `json:"effects"`
}

// Clone returns a copy sharing no memory with s.
func (s State) Clone() State {
	s.Segments = models.Clone(s.Segments)
	s.Texts = models.Clone(s.Texts)
	s.Shapes = models.Clone(s.Shapes)
	s.Images = models.Clone(s.Images)
	s.Gradients = models.Clone(s.Gradients)
	s.Effects = models.Clone(s.Effects)
	return s
}

func (s State) canonical() State {
	s.Segments = nilIfEmpty(s.Segments)
	s.Texts = nilIfEmpty(s.Texts)
	s.Shapes = nilIfEmpty(s.Shapes)
	s.Images = nilIfEmpty(s.Images)
	s.Gradients = nilIfEmpty(s.Gradients)
	s.Effects = nilIfEmpty(s.Effects)
	return s
}

func nilIfEmpty[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	return items
}

// Len returns the number of timed entities across all collections.
func (s State) Len() int {
	return len(s.Segments) + len(s.Texts) + len(s.Shapes) + len(s.Images) + len(s.Gradients) + len(s.Effects)
}

// Snapshot is the undoable part of the state.
type Snapshot struct {
	Layout  layout.Layout
	Filters models.FilterParams
	Texts   []models.TextOverlay
}

func (s Snapshot) Clone() Snapshot {
	s.Texts = models.Clone(s.Texts)
	return s
}

func (s *State) snapshot() Snapshot {
	return Snapshot{Layout: s.Layout, Filters: s.Filters, Texts: s.Texts}
}

// diff reports the collections and settings that differ between s and other.
func (s Snapshot) diff(other Snapshot) ([]models.Kind, []string) {
	var settings []string
	if s.Layout != other.Layout {
		settings = append(settings, events.SettingLayout)
	}
	if s.Filters != other.Filters {
		settings = append(settings, events.SettingFilters)
	}
	var kinds []models.Kind
	if !reflect.DeepEqual(nilIfEmpty(s.Texts), nilIfEmpty(other.Texts)) {
		kinds = append(kinds, models.KindText)
	}
	return kinds, settings
}

func (s *State) restore(snap Snapshot) {
	s.Layout = snap.Layout
	s.Filters = snap.Filters
	s.Texts = snap.Texts
}

// Slice is a bit set of the state parts a command may write.
type Slice uint16

const (
	SliceLayout Slice = 1 << iota
	SliceFilters
	SliceSegments
	SliceTexts
	SliceShapes
	SliceImages
	SliceGradients
	SliceEffects
)

// Tracked is the part of the state captured by undo snapshots.
const Tracked = SliceLayout | SliceFilters | SliceTexts

// SliceOf maps a collection kind to its Slice bit.
func SliceOf(kind models.Kind) Slice {
	switch kind {
	case models.KindSegment:
		return SliceSegments
	case models.KindText:
		return SliceTexts
	case models.KindShape:
		return SliceShapes
	case models.KindImage:
		return SliceImages
	case models.KindGradient:
		return SliceGradients
	case models.KindEffect:
		return SliceEffects
	}
	return 0
}
