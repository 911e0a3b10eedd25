package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/timeline/internal/core/composition"
	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/templates"
	"github.com/zeusync/timeline/internal/core/timing"
)

var ph60 = timing.Playhead{Duration: 60}

type fixture struct {
	comp   *composition.Composition
	bus    events.Bus
	server *Server
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	bus := events.New()
	comp := composition.New(composition.WithPublisher(bus))

	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewServer(cfg, comp, templates.Builtin(), bus, nil)
	require.NoError(t, err)
	return &fixture{comp: comp, bus: bus, server: s}
}

func (f *fixture) get(t *testing.T, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func addText(t *testing.T, c *composition.Composition, start, end float64) models.ID {
	t.Helper()
	o := models.NewTextOverlay("preview")
	o.StartTime, o.EndTime = start, end
	id, ok := c.AddText(ph60, o)
	require.True(t, ok)
	return id
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.MaxClients = 0
	_, err := NewServer(cfg, composition.New(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCompositionETag(t *testing.T) {
	f := newFixture(t, nil)

	first := f.get(t, "/composition", nil)
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var body CompositionResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &body))
	assert.Equal(t, uint64(0), body.Version)
	assert.Equal(t, etag, `"`+body.Fingerprint+`"`)

	cached := f.get(t, "/composition", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, cached.Code)
	assert.Zero(t, cached.Body.Len())

	addText(t, f.comp, 1, 4)

	changed := f.get(t, "/composition", http.Header{"If-None-Match": {etag}})
	require.Equal(t, http.StatusOK, changed.Code)
	assert.NotEqual(t, etag, changed.Header().Get("ETag"))
	assert.Equal(t, "1", changed.Header().Get("X-Composition-Version"))

	require.NoError(t, json.Unmarshal(changed.Body.Bytes(), &body))
	assert.Len(t, body.State.Texts, 1)
}

func TestPaint(t *testing.T) {
	f := newFixture(t, nil)
	id := addText(t, f.comp, 1, 4)

	for _, bad := range []string{"", "abc", "-1", "NaN"} {
		rec := f.get(t, "/composition/paint?t="+bad, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "t=%q", bad)
	}

	rec := f.get(t, "/composition/paint?t=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Time  float64 `json:"time"`
		Items []struct {
			Kind models.Kind `json:"kind"`
			ID   models.ID   `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2.0, body.Time)
	require.Len(t, body.Items, 1)
	assert.Equal(t, models.KindText, body.Items[0].Kind)
	assert.Equal(t, id, body.Items[0].ID)

	empty := f.get(t, "/composition/paint?t=30", nil)
	assert.JSONEq(t, `{"time":30,"items":[]}`, empty.Body.String())
}

func TestTemplates(t *testing.T) {
	f := newFixture(t, nil)

	all := f.get(t, "/templates", nil)
	require.Equal(t, http.StatusOK, all.Code)
	var list []templates.Template
	require.NoError(t, json.Unmarshal(all.Body.Bytes(), &list))
	assert.Len(t, list, len(templates.Builtin().Templates))

	titles := f.get(t, "/templates?category=titles", nil)
	require.NoError(t, json.Unmarshal(titles.Body.Bytes(), &list))
	require.NotEmpty(t, list)
	for _, tpl := range list {
		assert.Equal(t, "titles", tpl.Category)
	}
}

func TestTokenAuth(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Token = "s3cret" })

	assert.Equal(t, http.StatusUnauthorized, f.get(t, "/composition", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		f.get(t, "/composition", http.Header{"Authorization": {"Bearer wrong"}}).Code)
	assert.Equal(t, http.StatusOK,
		f.get(t, "/composition", http.Header{"Authorization": {"Bearer s3cret"}}).Code)
	assert.Equal(t, http.StatusOK, f.get(t, "/templates?token=s3cret", nil).Code)

	// health stays open for probes
	assert.Equal(t, http.StatusOK, f.get(t, "/healthz", nil).Code)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/composition", nil)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
