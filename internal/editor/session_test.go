package editor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/templates"
	"github.com/zeusync/timeline/internal/core/timing"
	"github.com/zeusync/timeline/internal/prefs"
)

func newSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(cfg, prefs.NewMemory(), events.New(), nil)
	require.NoError(t, err)
	return s
}

func TestInsertTemplateTracksRecent(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, DefaultConfig())
	ph := timing.Playhead{Duration: 60, Time: 5}

	ids, err := s.InsertTemplate(ctx, ph, "title-card")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	_, err = s.InsertTemplate(ctx, ph, "quote")
	require.NoError(t, err)

	_, err = s.InsertTemplate(ctx, ph, "nope")
	require.ErrorIs(t, err, templates.ErrTemplateNotFound)

	recent, err := s.RecentTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "quote", recent[0].ID)
	assert.Equal(t, "title-card", recent[1].ID)

	// title-card has no durations, so the configured default applies
	texts := s.Composition().Texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, 5.0, texts[0].StartTime)
	assert.Equal(t, 5+templates.DefaultElementDuration, texts[0].EndTime)
}

func TestInsertTemplatesBatch(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, DefaultConfig())
	ph := timing.Playhead{Duration: 60}

	ids, err := s.InsertTemplates(ctx, ph, []TemplateAt{{ID: "lower-third", Anchor: 1}, {ID: "chapter-marker", Anchor: 20}})
	require.NoError(t, err)
	assert.Len(t, ids, 6)
	assert.Equal(t, 1, s.Composition().HistoryLen())

	_, err = s.InsertTemplates(ctx, ph, []TemplateAt{{ID: "missing"}})
	require.ErrorIs(t, err, templates.ErrTemplateNotFound)
}

func TestPins(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, DefaultConfig())

	pinned, err := s.ToggleTemplatePin(ctx, "quote")
	require.NoError(t, err)
	assert.True(t, pinned)
	_, err = s.ToggleTemplatePin(ctx, "missing")
	require.ErrorIs(t, err, templates.ErrTemplateNotFound)

	tpls, err := s.PinnedTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, tpls, 1)

	_, err = s.ToggleEffectPin(ctx, "vintage")
	require.NoError(t, err)
	names, err := s.PinnedEffects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"vintage"}, names)
}

func TestSessionConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrackPolicy = "sideways"
	_, err := NewSession(cfg, nil, nil, nil)
	require.ErrorIs(t, err, ErrInvalidTrackPolicy)

	cfg = DefaultConfig()
	cfg.TrackPolicy = TrackPolicyReject
	cfg.Layout = layout.Vertical
	s, err := NewSession(cfg, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, layout.Vertical, s.Composition().Layout())

	ph := timing.Playhead{Duration: 30}
	o := models.NewTextOverlay("a")
	o.EndTime = 5
	_, ok := s.Composition().AddText(ph, o)
	require.True(t, ok)
	_, ok = s.Composition().AddText(ph, o)
	require.False(t, ok)
}

func TestSessionMergesExtraTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates:
  - id: outro
    name: Outro
    elements: [{kind: text, text: {text: Thanks, y: 50}}]
`), 0o600))

	cfg := DefaultConfig()
	cfg.TemplatesPath = path
	s := newSession(t, cfg)
	_, err := s.Catalog().Get("outro")
	require.NoError(t, err)
	_, err = s.Catalog().Get("lower-third")
	require.NoError(t, err)

	cfg.TemplatesPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewSession(cfg, nil, nil, nil)
	require.Error(t, err)
}

func TestProjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, DefaultConfig())
	ph := timing.Playhead{Duration: 60, Time: 3}
	_, err := s.InsertTemplate(ctx, ph, "lower-third")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteProject(&buf))

	other := newSession(t, DefaultConfig())
	dropped, err := other.LoadProject(&buf, ph)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, s.Composition().Fingerprint(), other.Composition().Fingerprint())

	_, err = other.LoadProject(strings.NewReader("{"), ph)
	require.ErrorIs(t, err, ErrInvalidProject)
}
