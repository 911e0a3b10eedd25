package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	require.NotEmpty(t, c.Version)
	require.NoError(t, c.Validate())

	tpl, err := c.Get("lower-third")
	require.NoError(t, err)
	require.Len(t, tpl.Elements, 3)
	require.NotNil(t, tpl.Elements[1].Text)
	require.NotNil(t, tpl.Elements[1].Text.StartOffset)
	assert.Equal(t, 0.2, *tpl.Elements[1].Text.StartOffset)

	_, err = c.Get("missing")
	require.ErrorIs(t, err, ErrTemplateNotFound)

	require.NotEmpty(t, c.List("TITLES"))
	require.Len(t, c.List(""), len(c.Templates))
	require.Contains(t, c.Categories(), "social")

	// absent duration stays nil so the request default applies
	title, err := c.Get("title-card")
	require.NoError(t, err)
	require.Nil(t, title.Elements[0].Text.Duration)
}

func TestLoadJSONPreservesTimingFields(t *testing.T) {
	const doc = `{
		"version": "1",
		"templates": [{
			"id": "t",
			"name": "T",
			"elements": [
				{"kind": "text", "text": {"text": "hi", "startOffset": 0, "duration": 2.5, "y": 10}},
				{"kind": "shape", "shape": {"kind": "circle", "startOffset": 1}}
			]
		}]
	}`

	c, err := LoadJSON(strings.NewReader(doc))
	require.NoError(t, err)
	tpl, err := c.Get("t")
	require.NoError(t, err)

	text := tpl.Elements[0].Text
	require.NotNil(t, text.StartOffset)
	assert.Equal(t, 0.0, *text.StartOffset)
	require.NotNil(t, text.Duration)
	assert.Equal(t, 2.5, *text.Duration)

	shape := tpl.Elements[1].Shape
	require.NotNil(t, shape.StartOffset)
	assert.Nil(t, shape.Duration)
}

func TestCatalogValidate(t *testing.T) {
	cases := map[string]string{
		"missing id":     `templates: [{name: x, elements: [{kind: text, text: {text: a}}]}]`,
		"duplicate id":   `templates: [{id: a, elements: [{kind: text, text: {text: a}}]}, {id: a, elements: [{kind: text, text: {text: a}}]}]`,
		"no elements":    `templates: [{id: a}]`,
		"kind mismatch":  `templates: [{id: a, elements: [{kind: shape, text: {text: a}}]}]`,
		"negative start": `templates: [{id: a, elements: [{kind: text, text: {text: a, startOffset: -1}}]}]`,
		"zero duration":  `templates: [{id: a, elements: [{kind: text, text: {text: a, duration: 0}}]}]`,
		"unknown shape":  `templates: [{id: a, elements: [{kind: shape, shape: {kind: star}}]}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}

func TestCatalogMerge(t *testing.T) {
	base := Builtin()
	extra, err := LoadYAML(strings.NewReader(`
version: "custom"
templates:
  - id: lower-third
    name: Replaced
    elements: [{kind: text, text: {text: x}}]
  - id: outro
    name: Outro
    elements: [{kind: text, text: {text: bye}}]
`))
	require.NoError(t, err)

	merged := base.Merge(extra)
	assert.Equal(t, "custom", merged.Version)
	assert.Len(t, merged.Templates, len(base.Templates)+1)

	tpl, err := merged.Get("lower-third")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", tpl.Name)
	assert.Equal(t, "lower-third", merged.Templates[0].ID)

	_, err = merged.Get("outro")
	require.NoError(t, err)

	// the original is untouched
	orig, _ := base.Get("lower-third")
	assert.Equal(t, "Lower Third", orig.Name)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yml")
	require.NoError(t, os.WriteFile(path, []byte(`templates: [{id: a, elements: [{kind: text, text: {text: a}}]}]`), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, c.Templates, 1)

	_, err = LoadFile(filepath.Join(dir, "extra.txt"))
	require.Error(t, err)

	bad := filepath.Join(dir, "x.toml")
	require.NoError(t, os.WriteFile(bad, nil, 0o600))
	_, err = LoadFile(bad)
	require.ErrorIs(t, err, ErrUnknownFormat)
}
