package templates

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/timeline/internal/core/models"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Catalog is a versioned list of templates. A Catalog is immutable once
// loaded; Merge returns a new one.
type Catalog struct {
	Version   string     `json:"version" yaml:"version"`
	Templates []Template `json:"templates" yaml:"templates"`

	indexOnce sync.Once
	index     map[string]int
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the catalog shipped with the binary.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		c, err := LoadYAML(bytes.NewReader(builtinCatalog))
		if err != nil {
			panic(fmt.Sprintf("templates: embedded catalog: %v", err))
		}
		builtin = c
	})
	return builtin
}

// LoadJSON reads and validates a catalog from JSON.
func LoadJSON(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode json catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadYAML reads and validates a catalog from YAML.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog, choosing the decoder by file extension.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Validate checks ids are present and unique and that every element carries
// the config its kind names.
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(c.Templates))
	for i, tpl := range c.Templates {
		if tpl.ID == "" {
			errs = append(errs, fmt.Errorf("%w: template %d has no id", ErrInvalidTemplate, i))
			continue
		}
		if _, dup := seen[tpl.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate id %q", ErrInvalidTemplate, tpl.ID))
		}
		seen[tpl.ID] = struct{}{}
		if err := tpl.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate checks every element of the template.
func (t Template) Validate() error {
	if len(t.Elements) == 0 {
		return fmt.Errorf("%w: %q has no elements", ErrInvalidTemplate, t.ID)
	}
	for i, el := range t.Elements {
		tm, ok := el.timing()
		if !ok {
			return fmt.Errorf("%w: %q element %d: kind %q without matching config", ErrInvalidTemplate, t.ID, i, el.Kind)
		}
		if tm.StartOffset != nil && *tm.StartOffset < 0 {
			return fmt.Errorf("%w: %q element %d: negative startOffset", ErrInvalidTemplate, t.ID, i)
		}
		if tm.Duration != nil && !(*tm.Duration > 0) {
			return fmt.Errorf("%w: %q element %d: duration must be positive", ErrInvalidTemplate, t.ID, i)
		}
		if el.Kind == ElementShape && el.Shape.Kind != "" && !el.Shape.Kind.Valid() {
			return fmt.Errorf("%w: %q element %d: unknown shape %q", ErrInvalidTemplate, t.ID, i, el.Shape.Kind)
		}
	}
	return nil
}

func (c *Catalog) lookup() map[string]int {
	c.indexOnce.Do(func() {
		c.index = make(map[string]int, len(c.Templates))
		for i, tpl := range c.Templates {
			c.index[tpl.ID] = i
		}
	})
	return c.index
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (Template, error) {
	if i, ok := c.lookup()[id]; ok {
		return c.Templates[i], nil
	}
	return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

// List returns the templates in catalog order. A non-empty category filters
// the result.
func (c *Catalog) List(category string) []Template {
	if category == "" {
		return slices.Clone(c.Templates)
	}
	out := make([]Template, 0, len(c.Templates))
	for _, tpl := range c.Templates {
		if strings.EqualFold(tpl.Category, category) {
			out = append(out, tpl)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	for _, tpl := range c.Templates {
		if tpl.Category != "" && !slices.Contains(out, tpl.Category) {
			out = append(out, tpl.Category)
		}
	}
	return out
}

// Merge returns a catalog holding c's templates overlaid by other's. A
// template in other replaces the one in c with the same id in place; new ids
// are appended. The version of other wins when set.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := &Catalog{Version: c.Version, Templates: slices.Clone(c.Templates)}
	if other == nil {
		return out
	}
	if other.Version != "" {
		out.Version = other.Version
	}
	index := make(map[string]int, len(out.Templates))
	for i, tpl := range out.Templates {
		index[tpl.ID] = i
	}
	for _, tpl := range other.Templates {
		if i, ok := index[tpl.ID]; ok {
			out.Templates[i] = tpl
			continue
		}
		index[tpl.ID] = len(out.Templates)
		out.Templates = append(out.Templates, tpl)
	}
	return out
}

// Kinds returns the entity kinds a template produces, for logging.
func (t Template) Kinds() []models.Kind {
	var out []models.Kind
	for _, el := range t.Elements {
		k := models.Kind(el.Kind)
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}
