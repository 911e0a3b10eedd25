package composition

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/timing"
)

// entity is satisfied by pointers to the timeline record types.
type entity[T any] interface {
	*T
	models.Entity
}

func indexOf[T any, P entity[T]](items []T, id models.ID) int {
	if id == "" {
		return -1
	}
	for i := range items {
		if P(&items[i]).Meta().ID == id {
			return i
		}
	}
	return -1
}

func find[T any, P entity[T]](items []T, id models.ID) (T, bool) {
	if i := indexOf[T, P](items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

func bases[T any, P entity[T]](items []T) []models.Base {
	out := make([]models.Base, len(items))
	for i := range items {
		out[i] = *P(&items[i]).Meta()
	}
	return out
}

// addEntity clamps, remaps and normalises item, then inserts it under a
// fresh ID.
func addEntity[T any, P entity[T]](tx *Tx, items *[]T, ph timing.Playhead, item T) (models.ID, bool) {
	p := P(&item)
	p.Meta().ID = ""
	prepare[T](tx, p, ph, true)
	return insertEntity[T, P](tx, items, item)
}

// insertEntity stores an already prepared item. It assigns the ID when the
// item has none or a taken one, the default track, and the insertion
// sequence. The insert guard may move or reject the item.
func insertEntity[T any, P entity[T]](tx *Tx, items *[]T, item T) (models.ID, bool) {
	p := P(&item)
	b := p.Meta()
	kind := p.Kind()

	for b.ID == "" || indexOf[T, P](*items, b.ID) >= 0 {
		b.ID = tx.NewID()
	}
	if b.Track <= 0 {
		b.Track = tx.c.tracks.DefaultTrack(string(kind))
	}
	if tx.c.guard != nil && !tx.c.guard.Admit(kind, b, bases[T, P](*items)) {
		tx.c.log.Debug("insert rejected by guard")
		return "", false
	}
	b.Seq = tx.nextSeq()

	// Copy on write so earlier readers of the slice never see the append.
	next := make([]T, len(*items), len(*items)+1)
	copy(next, *items)
	*items = append(next, item)
	tx.Touch(kind, b.ID)
	return b.ID, true
}

// updateEntity applies fn to a copy of the entity with the given id and
// stores the result when it differs. ID and Seq cannot be changed by fn. A nil
// fn changes nothing.
func updateEntity[T any, P entity[T]](tx *Tx, items *[]T, id models.ID, ph timing.Playhead, fn func(P)) bool {
	if fn == nil {
		return false
	}
	i := indexOf[T, P](*items, id)
	if i < 0 {
		return false
	}
	current := (*items)[i]
	orig := *P(&current).Meta()

	next := current
	p := P(&next)
	fn(p)
	b := p.Meta()
	b.ID, b.Seq = orig.ID, orig.Seq
	if b.Track < 0 {
		b.Track = orig.Track
	}
	prepare[T](tx, p, ph, false)

	if reflect.DeepEqual(current, next) {
		return false
	}
	updated := slices.Clone(*items)
	updated[i] = next
	*items = updated
	tx.Touch(p.Kind(), id)
	return true
}

func removeEntity[T any, P entity[T]](tx *Tx, items *[]T, id models.ID) bool {
	i := indexOf[T, P](*items, id)
	if i < 0 {
		return false
	}
	kind := P(&(*items)[i]).Kind()
	*items = slices.Delete(slices.Clone(*items), i, i+1)
	tx.Touch(kind, id)
	return true
}

// loadEntities prepares items for Load, dropping duplicate IDs.
func loadEntities[T any, P entity[T]](tx *Tx, items []T, ph timing.Playhead, maxSeq *uint64, dropped *int) []T {
	out := make([]T, 0, len(items))
	seen := make(map[models.ID]struct{}, len(items))
	for _, item := range items {
		p := P(&item)
		b := p.Meta()
		if b.ID == "" {
			b.ID = tx.NewID()
		}
		if _, dup := seen[b.ID]; dup {
			*dropped++
			continue
		}
		seen[b.ID] = struct{}{}
		if b.Track < 0 {
			b.Track = 0
		}
		prepare[T](tx, p, ph, false)
		*maxSeq = max(*maxSeq, b.Seq)
		out = append(out, item)
	}
	return out
}

func fillSeq[T any, P entity[T]](tx *Tx, items []T) {
	for i := range items {
		if b := P(&items[i]).Meta(); b.Seq == 0 {
			b.Seq = tx.nextSeq()
		}
	}
}

// sortSegments keeps playback order: by start time, then insertion.
func sortSegments(segments []models.Segment) {
	slices.SortStableFunc(segments, func(a, b models.Segment) int {
		if c := cmp.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
}
