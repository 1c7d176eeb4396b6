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
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"base.html": &fstest.MapFile{
			Data: []byte(`<!doctype html><title>{% block title %}Galley{% endblock %}</title><main>{% block content %}{% endblock %}</main>`),
		},
		"index.html": &fstest.MapFile{
			Data: []byte(`{% extends "base.html" %}{% block title %}Home - Galley{% endblock %}{% block content %}{% for post in posts %}[{{ forloop.Counter }}:{{ post.title }}]{% empty %}<p>No posts yet.</p>{% endfor %}{% endblock %}`),
		},
		"partials/meta.html": &fstest.MapFile{
			Data: []byte(`<p class="meta">By {{ post.author }}</p>`),
		},
		"macros/widgets.html": &fstest.MapFile{
			Data: []byte(`{% macro badge(label, kind="tag") export %}<span class="badge badge-{{ kind }}">{{ label }}</span>{% endmacro %}`),
		},
		"post.html": &fstest.MapFile{
			Data: []byte(`{% import "macros/widgets.html" badge %}{{ badge("Go") }}|{{ badge("News", "section") }}{% include "partials/meta.html" %}`),
		},
	}
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()

	engine, err := NewEngine(opts)
	require.NoError(t, err, "failed to create engine")
	return engine
}

func TestEngineInheritance(t *testing.T) {
	engine := newTestEngine(t, Options{FS: siteFS()})

	t.Run("blocksOverrideParent", func(t *testing.T) {
		var buf bytes.Buffer
		err := engine.Render(&buf, "index.html", map[string]interface{}{
			"posts": []map[string]interface{}{
				{"title": "First Post"},
				{"title": "Learning Go"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t,
			`<!doctype html><title>Home - Galley</title><main>[1:First Post][2:Learning Go]</main>`,
			buf.String())
	})

	t.Run("emptyBranchWithoutItems", func(t *testing.T) {
		var buf bytes.Buffer
		err := engine.Render(&buf, "index.html", map[string]interface{}{
			"posts": []map[string]interface{}{},
		})

		require.NoError(t, err)
		assert.Equal(t,
			`<!doctype html><title>Home - Galley</title><main><p>No posts yet.</p></main>`,
			buf.String())
	})

	t.Run("parentDefaultsWhenBlockMissing", func(t *testing.T) {
		out, err := engine.RenderString(
			`{% extends "base.html" %}{% block content %}preview{% endblock %}`, nil)

		require.NoError(t, err)
		assert.Equal(t, `<!doctype html><title>Galley</title><main>preview</main>`, out)
	})
}

func TestEngineMacrosAndIncludes(t *testing.T) {
	engine := newTestEngine(t, Options{FS: siteFS()})

	var buf bytes.Buffer
	err := engine.Render(&buf, "post.html", map[string]interface{}{
		"post": map[string]interface{}{"author": "Jane Smith"},
	})

	require.NoError(t, err)
	assert.Equal(t,
		`<span class="badge badge-tag">Go</span>|<span class="badge badge-section">News</span><p class="meta">By Jane Smith</p>`,
		buf.String())
}

func TestEngineDirectives(t *testing.T) {
	engine := newTestEngine(t, Options{FS: fstest.MapFS{}})

	tests := map[string]struct {
		source   string
		ctx      map[string]interface{}
		expected string
	}{
		"setAssignsVariables": {
			source:   `{% set greeting = name|upper %}{{ greeting }}!`,
			ctx:      map[string]interface{}{"name": "ada"},
			expected: "ADA!",
		},
		"ifElifElse": {
			source:   `{% if n > 10 %}big{% elif n > 1 %}some{% else %}none{% endif %}`,
			ctx:      map[string]interface{}{"n": 3},
			expected: "some",
		},
		"defaultFillsMissingValues": {
			source:   `{{ missing|default:"n/a" }}`,
			ctx:      map[string]interface{}{},
			expected: "n/a",
		},
		"escapesByDefault": {
			source:   `{{ snippet }}`,
			ctx:      map[string]interface{}{"snippet": "<b>&</b>"},
			expected: "&lt;b&gt;&amp;&lt;/b&gt;",
		},
		"safeDisablesEscaping": {
			source:   `{{ snippet|safe }}`,
			ctx:      map[string]interface{}{"snippet": "<b>&</b>"},
			expected: "<b>&</b>",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := engine.RenderString(test.source, test.ctx)
			require.NoError(t, err)
			assert.Equal(t, test.expected, out)
		})
	}
}

func TestEngineGlobals(t *testing.T) {
	engine := newTestEngine(t, Options{
		FS: fstest.MapFS{},
		Globals: map[string]interface{}{
			"site_name": "Galley",
			"static": func(p *pongo2.Value) *pongo2.Value {
				return pongo2.AsValue("/static/" + p.String())
			},
		},
	})

	out, err := engine.RenderString(`{{ site_name }}: {{ static("css/site.css") }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "Galley: /static/css/site.css", out)
}

func TestEngineValidate(t *testing.T) {
	engine := newTestEngine(t, Options{FS: siteFS()})

	assert.NoError(t, engine.Validate(`{% if ok %}fine{% endif %}`))
	assert.Error(t, engine.Validate(`{% if ok %}unclosed`))
	assert.Error(t, engine.Validate(`{{ post.title `))
}

func TestEngineValidateAll(t *testing.T) {
	t.Run("allParse", func(t *testing.T) {
		engine := newTestEngine(t, Options{FS: siteFS()})
		assert.NoError(t, engine.ValidateAll())
	})

	t.Run("namesBrokenFile", func(t *testing.T) {
		fsys := siteFS()
		fsys["broken.html"] = &fstest.MapFile{Data: []byte(`{% for x in %}`)}

		engine := newTestEngine(t, Options{FS: fsys})
		err := engine.ValidateAll()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.html")
	})
}

func TestEngineRenderUnknownTemplate(t *testing.T) {
	engine := newTestEngine(t, Options{FS: siteFS()})

	var buf bytes.Buffer
	err := engine.Render(&buf, "missing.html", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.html")
}

func TestEngineNames(t *testing.T) {
	engine := newTestEngine(t, Options{FS: fstest.MapFS{
		"zz.html":        &fstest.MapFile{Data: []byte(`z`)},
		"a.html":         &fstest.MapFile{Data: []byte(`a`)},
		"nested/b.html":  &fstest.MapFile{Data: []byte(`b`)},
		"static/app.css": &fstest.MapFile{Data: []byte(`body{}`)},
	}})

	names, err := engine.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.html", "nested/b.html", "zz.html"}, names)
}

func TestEngineSource(t *testing.T) {
	engine := newTestEngine(t, Options{FS: siteFS()})

	src, err := engine.Source("partials/meta.html")
	require.NoError(t, err)
	assert.Equal(t, `<p class="meta">By {{ post.author }}</p>`, string(src))

	_, err = engine.Source("nope.html")
	assert.Error(t, err)
}

func TestEngineCacheAndRefresh(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte("v1"), 0600))

	engine := newTestEngine(t, Options{Dir: dir})
	assert.Equal(t, dir, engine.Dir())

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "page.html", nil))
	assert.Equal(t, "v1", buf.String())

	require.NoError(t, os.WriteFile(page, []byte("v2"), 0600))

	buf.Reset()
	require.NoError(t, engine.Render(&buf, "page.html", nil))
	assert.Equal(t, "v1", buf.String(), "cached parse should survive file edits")

	engine.Refresh()

	buf.Reset()
	require.NoError(t, engine.Render(&buf, "page.html", nil))
	assert.Equal(t, "v2", buf.String(), "refresh should drop the cached parse")
}

func TestEngineReloadMode(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte("v1"), 0600))

	engine := newTestEngine(t, Options{Dir: dir, Reload: true})

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "page.html", nil))
	assert.Equal(t, "v1", buf.String())

	require.NoError(t, os.WriteFile(page, []byte("v2"), 0600))

	buf.Reset()
	require.NoError(t, engine.Render(&buf, "page.html", nil))
	assert.Equal(t, "v2", buf.String(), "reload mode should re-parse on every render")
}

func TestEngineEmbeddedSourceIsReadOnly(t *testing.T) {
	engine := newTestEngine(t, Options{FS: siteFS()})
	assert.Equal(t, "", engine.Dir())
}

func TestEngineRequiresASource(t *testing.T) {
	_, err := NewEngine(Options{})
	assert.Error(t, err)
}
