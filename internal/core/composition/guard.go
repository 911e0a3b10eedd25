package composition

import (
	"slices"

	"github.com/zeusync/timeline/internal/core/models"
)

// InsertGuard vets an entity before it is inserted. It may adjust the
// candidate in place and returns false to reject it. Existing holds the
// entities already in the candidate's collection.
type InsertGuard interface {
	Admit(kind models.Kind, candidate *models.Base, existing []models.Base) bool
}

// GuardFunc adapts a function to InsertGuard.
type GuardFunc func(kind models.Kind, candidate *models.Base, existing []models.Base) bool

func (f GuardFunc) Admit(kind models.Kind, candidate *models.Base, existing []models.Base) bool {
	return f(kind, candidate, existing)
}

// TrackPolicy is what ExclusiveTracks does with an overlapping insert.
type TrackPolicy uint8

const (
	// Reject drops the insert.
	Reject TrackPolicy = iota
	// BumpTrack moves the insert to the next free track.
	BumpTrack
)

// ExclusiveTracks forbids two entities of a collection overlapping in time
// on the same track. With no kinds it applies to every collection.
func ExclusiveTracks(policy TrackPolicy, kinds ...models.Kind) InsertGuard {
	return GuardFunc(func(kind models.Kind, candidate *models.Base, existing []models.Base) bool {
		if len(kinds) > 0 && !slices.Contains(kinds, kind) {
			return true
		}
		// At most len(existing) tracks can be occupied, so this terminates.
		for range len(existing) + 1 {
			if !occupied(candidate, existing) {
				return true
			}
			if policy == Reject {
				return false
			}
			candidate.Track++
		}
		return !occupied(candidate, existing)
	})
}

func occupied(candidate *models.Base, existing []models.Base) bool {
	r := candidate.Range()
	for _, e := range existing {
		if e.Track == candidate.Track && e.Range().Overlaps(r) {
			return true
		}
	}
	return false
}

// Guards chains several guards; all must admit.
func Guards(guards ...InsertGuard) InsertGuard {
	return GuardFunc(func(kind models.Kind, candidate *models.Base, existing []models.Base) bool {
		for _, g := range guards {
			if !g.Admit(kind, candidate, existing) {
				return false
			}
		}
		return true
	})
}
