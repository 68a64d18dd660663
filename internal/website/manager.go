// internal/website/manager.go
//
// Template-set discovery and parsing.
//
// Context
// -------
// Each presentation template is a directory of html/template files under
// the configured base dir (`templates/template_1/…`).  All files in one
// directory parse as a single set so sub-templates ({{ template "hero" . }})
// work out of the box.  Parsed sets are LRU-cached; the cache is small
// because the set universe is (marketing, shared, template_1..3).
package website

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/inmosite/gateway/internal/cache"
)

// Manager loads and caches template sets.
type Manager struct {
	BaseDir string
	lru     *cache.LRU[string, *template.Template]
}

// NewManager returns a Manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{
		BaseDir: baseDir,
		lru:     cache.New[string, *template.Template](16),
	}
}

// FuncMap returns the helpers available to every template set.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// Section bodies come from the dashboard's rich-text editor and
		// are stored as HTML; templates opt in per field.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		// Theming tokens are emitted inside style attributes.
		"safeCSS": func(s string) template.CSS { return template.CSS(s) },
	}
}

// Load parses (or returns the cached) template set with the given name.
func (m *Manager) Load(set string) (*template.Template, error) {
	if t, ok := m.lru.Get(set); ok {
		return t, nil
	}

	pattern := filepath.Join(m.BaseDir, set, "*.html")
	t, err := template.New(set).Funcs(FuncMap()).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("parse template set %s: %w", set, err)
	}

	m.lru.Add(set, t)
	return t, nil
}
