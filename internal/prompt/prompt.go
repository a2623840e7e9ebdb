package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Store loads versioned prompt templates from a prompt library directory.
// Templates live at <root>/<name>/<version>.tmpl. A missing template is a
// hard failure; there is no fallback prompt.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

type Template struct {
	name string
	tmpl *template.Template
}

func (s *Store) Load(name, version string) (*Template, error) {
	path := filepath.Join(s.root, name, version+".tmpl")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt %s/%s not found: %w", name, version, err)
	}
	t, err := template.New(name + "/" + version).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt %s/%s: %w", name, version, err)
	}
	return &Template{name: name, tmpl: t}, nil
}

func (t *Template) Render(values map[string]any) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, values); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", t.name, err)
	}
	return b.String(), nil
}
