package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// DefaultRecentLimit bounds a Recent list when no limit is given.
const DefaultRecentLimit = 12

// Well-known preference keys.
const (
	KeyRecentTemplates = "templates.recent"
	KeyPinnedEffects   = "effects.pinned"
	KeyPinnedTemplates = "templates.pinned"
)

// list is a JSON string array stored under one key. Writes are serialised
// within the process; concurrent writers in other processes may race.
type list struct {
	mu    sync.Mutex
	store Store
	key   string
}

func (l *list) load(ctx context.Context) ([]string, error) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var items []string
	if err = json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", l.key, err)
	}
	return items, nil
}

func (l *list) save(ctx context.Context, items []string) error {
	if len(items) == 0 {
		return l.store.Delete(ctx, l.key)
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, l.key, string(raw))
}

func (l *list) update(ctx context.Context, fn func([]string) []string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	items = fn(items)
	if err = l.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Recent is a most-recently-used list, newest first.
type Recent struct {
	list
	limit int
}

func NewRecent(store Store, key string, limit int) *Recent {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Recent{list: list{store: store, key: key}, limit: limit}
}

// Touch moves id to the front, evicting the oldest entries past the limit.
func (r *Recent) Touch(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	_, err := r.update(ctx, func(items []string) []string {
		items = slices.DeleteFunc(items, func(s string) bool { return s == id })
		items = slices.Insert(items, 0, id)
		if len(items) > r.limit {
			items = items[:r.limit]
		}
		return items
	})
	return err
}

func (r *Recent) List(ctx context.Context) ([]string, error) {
	return r.load(ctx)
}

func (r *Recent) Remove(ctx context.Context, id string) error {
	_, err := r.update(ctx, func(items []string) []string {
		return slices.DeleteFunc(items, func(s string) bool { return s == id })
	})
	return err
}

func (r *Recent) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, r.key)
}

// Pinned is an ordered set, oldest pin first.
type Pinned struct {
	list
}

func NewPinned(store Store, key string) *Pinned {
	return &Pinned{list: list{store: store, key: key}}
}

func (p *Pinned) Pin(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	_, err := p.update(ctx, func(items []string) []string {
		if slices.Contains(items, id) {
			return items
		}
		return append(items, id)
	})
	return err
}

func (p *Pinned) Unpin(ctx context.Context, id string) error {
	_, err := p.update(ctx, func(items []string) []string {
		return slices.DeleteFunc(items, func(s string) bool { return s == id })
	})
	return err
}

// Toggle pins or unpins id and reports whether it is now pinned.
func (p *Pinned) Toggle(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var pinned bool
	_, err := p.update(ctx, func(items []string) []string {
		if slices.Contains(items, id) {
			return slices.DeleteFunc(items, func(s string) bool { return s == id })
		}
		pinned = true
		return append(items, id)
	})
	return pinned, err
}

func (p *Pinned) IsPinned(ctx context.Context, id string) (bool, error) {
	items, err := p.load(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(items, id), nil
}

func (p *Pinned) List(ctx context.Context) ([]string, error) {
	return p.load(ctx)
}
