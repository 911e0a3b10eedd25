package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/zeusync/timeline/internal/core/composition"
	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/core/templates"
	"github.com/zeusync/timeline/internal/core/timing"
	"github.com/zeusync/timeline/internal/prefs"
)

// Track policies accepted by Config.TrackPolicy.
const (
	TrackPolicyNone   = ""
	TrackPolicyReject = "reject"
	TrackPolicyBump   = "bump"
)

// Config tunes a Session.
type Config struct {
	HistoryDepth int
	MinDuration  float64
	// DefaultDuration applies to template elements without their own.
	DefaultDuration float64
	Layout          layout.Layout
	// TrackPolicy enables exclusive tracks: "reject" or "bump".
	TrackPolicy string
	// TemplatesPath is an extra catalog merged over the built-in one.
	TemplatesPath string
	RecentLimit   int
}

func DefaultConfig() Config {
	return Config{
		HistoryDepth:    50,
		MinDuration:     timing.MinDuration,
		DefaultDuration: templates.DefaultElementDuration,
		Layout:          layout.Auto,
		RecentLimit:     prefs.DefaultRecentLimit,
	}
}

// Session is one open editor: the composition, the template catalog and the
// user's preference lists.
type Session struct {
	cfg     Config
	comp    *composition.Composition
	catalog *templates.Catalog
	bus     events.Bus

	recentTemplates *prefs.Recent
	pinnedTemplates *prefs.Pinned
	pinnedEffects   *prefs.Pinned

	log log.Log
}

// NewSession builds a session. A nil bus gets a fresh in-memory one.
func NewSession(cfg Config, store prefs.Store, bus events.Bus, logger log.Log) (*Session, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if bus == nil {
		bus = events.New()
	}
	if store == nil {
		store = prefs.NewMemory()
	}

	catalog := templates.Builtin()
	if cfg.TemplatesPath != "" {
		extra, err := templates.LoadFile(cfg.TemplatesPath)
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		catalog = catalog.Merge(extra)
		logger.Info("template catalog merged",
			log.String("path", cfg.TemplatesPath),
			log.Int("templates", len(catalog.Templates)),
		)
	}

	opts := []composition.Option{
		composition.WithHistoryDepth(cfg.HistoryDepth),
		composition.WithMinDuration(cfg.MinDuration),
		composition.WithLayout(cfg.Layout),
		composition.WithLogger(logger.Named("composition")),
		composition.WithPublisher(bus),
	}
	switch strings.ToLower(cfg.TrackPolicy) {
	case TrackPolicyNone:
	case TrackPolicyReject:
		opts = append(opts, composition.WithInsertGuard(composition.ExclusiveTracks(composition.Reject)))
	case TrackPolicyBump:
		opts = append(opts, composition.WithInsertGuard(composition.ExclusiveTracks(composition.BumpTrack)))
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTrackPolicy, cfg.TrackPolicy)
	}

	return &Session{
		cfg:             cfg,
		comp:            composition.New(opts...),
		catalog:         catalog,
		bus:             bus,
		recentTemplates: prefs.NewRecent(store, prefs.KeyRecentTemplates, cfg.RecentLimit),
		pinnedTemplates: prefs.NewPinned(store, prefs.KeyPinnedTemplates),
		pinnedEffects:   prefs.NewPinned(store, prefs.KeyPinnedEffects),
		log:             logger,
	}, nil
}

func (s *Session) Composition() *composition.Composition { return s.comp }

func (s *Session) Catalog() *templates.Catalog { return s.catalog }

func (s *Session) Bus() events.Bus { return s.bus }

// InsertTemplate expands a catalog template at the playhead and records it
// as recently used.
func (s *Session) InsertTemplate(ctx context.Context, ph timing.Playhead, templateID string) ([]models.ID, error) {
	tpl, err := s.catalog.Get(templateID)
	if err != nil {
		return nil, err
	}
	ids := s.comp.ApplyTemplate(ph, tpl, s.cfg.DefaultDuration)
	s.touchRecent(ctx, templateID)
	s.log.Debug("template inserted", log.Template(templateID), log.Int("entities", len(ids)))
	return ids, nil
}

// TemplateAt places a catalog template at an anchor time.
type TemplateAt struct {
	ID     string  `json:"id"`
	Anchor float64 `json:"anchor"`
}

// InsertTemplates expands several catalog templates as one undoable write.
func (s *Session) InsertTemplates(ctx context.Context, ph timing.Playhead, placements []TemplateAt) ([]models.ID, error) {
	resolved := make([]composition.Placement, 0, len(placements))
	for _, p := range placements {
		tpl, err := s.catalog.Get(p.ID)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, composition.Placement{Template: tpl, Anchor: p.Anchor})
	}

	ids, err := s.comp.ApplyTemplates(ctx, ph, resolved, s.cfg.DefaultDuration)
	if err != nil {
		return nil, err
	}
	for _, p := range placements {
		s.touchRecent(ctx, p.ID)
	}
	return ids, nil
}

// Preference failures never fail an edit.
func (s *Session) touchRecent(ctx context.Context, templateID string) {
	if err := s.recentTemplates.Touch(ctx, templateID); err != nil {
		s.log.Warn("recent templates not updated", log.Template(templateID), log.Error(err))
	}
}

// RecentTemplates returns recently used templates, newest first. Ids no
// longer in the catalog are skipped.
func (s *Session) RecentTemplates(ctx context.Context) ([]templates.Template, error) {
	ids, err := s.recentTemplates.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ids), nil
}

// ToggleTemplatePin pins or unpins a catalog template.
func (s *Session) ToggleTemplatePin(ctx context.Context, templateID string) (bool, error) {
	if _, err := s.catalog.Get(templateID); err != nil {
		return false, err
	}
	return s.pinnedTemplates.Toggle(ctx, templateID)
}

func (s *Session) PinnedTemplates(ctx context.Context) ([]templates.Template, error) {
	ids, err := s.pinnedTemplates.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ids), nil
}

// ToggleEffectPin pins or unpins an effect preset by name.
func (s *Session) ToggleEffectPin(ctx context.Context, name string) (bool, error) {
	return s.pinnedEffects.Toggle(ctx, name)
}

func (s *Session) PinnedEffects(ctx context.Context) ([]string, error) {
	return s.pinnedEffects.List(ctx)
}

func (s *Session) resolve(ids []string) []templates.Template {
	out := make([]templates.Template, 0, len(ids))
	for _, id := range ids {
		if tpl, err := s.catalog.Get(id); err == nil {
			out = append(out, tpl)
		}
	}
	return out
}

// LoadProject hydrates the composition from a JSON state document and
// returns the number of entities dropped as duplicates.
func (s *Session) LoadProject(r io.Reader, ph timing.Playhead) (int, error) {
	var state composition.State
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	return s.comp.Load(ph, state), nil
}

// WriteProject writes the composition as an indented JSON state document.
func (s *Session) WriteProject(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.comp.State())
}
