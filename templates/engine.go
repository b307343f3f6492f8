// templates/engine.go
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sort"

	"go.uber.org/zap"
)

// Engine holds one parsed template tree built from an embedded FS.
// Pages define named entry templates that call the shared layout.
type Engine struct {
	root   *template.Template
	logger *zap.Logger
}

// New parses every file matching patterns in fsys. extra funcs are merged
// over Funcs and may override them.
func New(fsys fs.FS, patterns []string, extra template.FuncMap, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	funcs := Funcs()
	for k, v := range extra {
		funcs[k] = v
	}

	files, err := globAll(fsys, patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("templates: no files match %v", patterns)
	}

	root := template.New("root").Funcs(funcs)
	for _, name := range files {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := root.Parse(string(src)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		logger.Debug("template parsed", zap.String("file", name))
	}

	return &Engine{root: root, logger: logger}, nil
}

// Execute renders the named template into w. Output is buffered so a
// failing template never leaves a half-written page.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	if e.root.Lookup(name) == nil {
		return fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := e.root.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func globAll(fsys fs.FS, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pat := range patterns {
		matches, err := fs.Glob(fsys, pat)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}
