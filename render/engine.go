// Copyright 2025 Galley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/pkg/errors"

	"github.com/galleyio/galley/metrics"
)

// Options configure an Engine.
type Options struct {
	// Dir is a template directory on disk. Templates in Dir can be edited
	// through the management API.
	Dir string

	// FS supplies templates when Dir is empty. This is how the embedded
	// defaults are served; the engine treats the source as read-only.
	FS fs.FS

	// Reload disables the parsed-template cache so that file edits take
	// effect on the next request. Intended for development.
	Reload bool

	// Globals are values and helper functions visible to every template.
	Globals map[string]interface{}
}

// Engine renders site templates using Django/Jinja syntax: inheritance via
// extends/block, includes, macro imports, the filter pipeline, and contextual
// autoescaping. It wraps a pongo2 template set configured from Options.
//
// All methods are safe for concurrent use; pongo2 guards its template cache
// internally and parsed templates are immutable.
type Engine struct {
	set  *pongo2.TemplateSet
	fsys fs.FS
	dir  string
}

// NewEngine creates an Engine from options. Exactly one template source is
// used: Dir when set, otherwise FS.
func NewEngine(opts Options) (*Engine, error) {
	registerFilters()

	fsys := opts.FS
	if opts.Dir != "" {
		fsys = os.DirFS(opts.Dir)
	}
	if fsys == nil {
		return nil, errors.New("render: no template source configured")
	}

	set := pongo2.NewSet("site", newFSLoader(fsys))
	set.Debug = opts.Reload
	for name, value := range opts.Globals {
		set.Globals[name] = value
	}

	return &Engine{
		set:  set,
		fsys: fsys,
		dir:  opts.Dir,
	}, nil
}

// Render writes the named template to w using the given context. Failed
// renders may have written a partial response; callers that need clean error
// pages should render to a buffer first.
func (e *Engine) Render(w io.Writer, name string, ctx map[string]interface{}) error {
	start := time.Now()

	tpl, err := e.set.FromCache(name)
	if err != nil {
		metrics.RenderErrors().Mark(1)
		return errors.Wrapf(err, "failed to load template %q", name)
	}

	if err := tpl.ExecuteWriter(pongo2.Context(ctx), w); err != nil {
		metrics.RenderErrors().Mark(1)
		return errors.Wrapf(err, "failed to render template %q", name)
	}

	metrics.RenderTimer().UpdateSince(start)
	return nil
}

// RenderString parses source as a template and renders it with the given
// context. The source can use every directive, filter, and global that disk
// templates can, including extending and including them.
func (e *Engine) RenderString(source string, ctx map[string]interface{}) (string, error) {
	tpl, err := e.set.FromString(source)
	if err != nil {
		return "", err
	}
	return tpl.Execute(pongo2.Context(ctx))
}

// Validate checks that source parses as a template. It never executes the
// source. The returned error carries line and column information when the
// engine can provide it.
func (e *Engine) Validate(source string) error {
	_, err := e.set.FromString(source)
	return err
}

// ValidateAll parses every template the engine can see and returns the first
// error, naming the offending file.
func (e *Engine) ValidateAll() error {
	names, err := e.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := e.set.FromFile(name); err != nil {
			return errors.Wrapf(err, "template %q", name)
		}
	}
	return nil
}

// Refresh drops the parsed-template cache so the next render reloads from
// the template source.
func (e *Engine) Refresh() {
	e.set.CleanCache()
}

// Names lists the template files visible to the engine, sorted.
func (e *Engine) Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(e.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(name, ".html") {
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk template source")
	}

	sort.Strings(names)
	return names, nil
}

// Source returns the raw contents of the named template.
func (e *Engine) Source(name string) ([]byte, error) {
	return fs.ReadFile(e.fsys, name)
}

// Dir returns the writable template directory, or "" when the engine serves
// read-only (embedded) templates.
func (e *Engine) Dir() string {
	return e.dir
}
