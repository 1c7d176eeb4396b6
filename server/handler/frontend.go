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

package handler

import (
	html "html/template"
	"net/http"
	"path"
	"strconv"
	"strings"
	text "text/template"
	"time"

	"github.com/bluekeyes/templatetree"
	"github.com/flosch/pongo2/v6"
	"github.com/google/go-querystring/query"

	"github.com/galleyio/galley/render"
	"github.com/galleyio/galley/web"
)

const (
	DefaultSiteTitle       = "Galley"
	DefaultSiteDescription = "A template-driven blog"
	DefaultPageSize        = 10
)

// FilesConfig points at directories that override the assets compiled into
// the binary. Empty values serve the embedded defaults; the template
// management API can only write when Templates names a real directory.
type FilesConfig struct {
	Static    string `yaml:"static"`
	Templates string `yaml:"templates"`
}

// SiteConfig is the site identity shown by every template.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	PageSize    int    `yaml:"page_size"`
}

func (c *SiteConfig) FillDefaults() {
	if c.Title == "" {
		c.Title = DefaultSiteTitle
	}
	if c.Description == "" {
		c.Description = DefaultSiteDescription
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
}

// LoadSiteTemplates builds the site rendering engine with Galley's template
// globals: the site identity, static asset URLs, and named-route URLs.
func LoadSiteTemplates(c *FilesConfig, site *SiteConfig, basePath string, reload bool) (*render.Engine, error) {
	opts := render.Options{
		Reload: reload,
		Globals: map[string]interface{}{
			"site": map[string]interface{}{
				"title":       site.Title,
				"description": site.Description,
				"author":      site.Author,
			},
			"static": func(name *pongo2.Value) *pongo2.Value {
				return pongo2.AsValue(StaticURL(basePath, name.String()))
			},
			"url_for": urlFor(basePath),
		},
	}

	if c.Templates != "" {
		opts.Dir = c.Templates
	} else {
		opts.FS = web.SiteTemplates()
	}

	return render.NewEngine(opts)
}

// LoadAdminTemplates parses the dashboard template tree. The dashboard is an
// internal surface, so it always uses the embedded templates.
func LoadAdminTemplates(basePath string) (templatetree.Tree[*html.Template], error) {
	factory := func(name string) templatetree.Template[*html.Template] {
		return html.New(name).Funcs(html.FuncMap{
			"resource": func(r string) string {
				return StaticURL(basePath, r)
			},
			"basePath": func(p string) string {
				return path.Join("/", basePath, p)
			},
		})
	}
	return templatetree.ParseFS(web.AdminTemplates(), "*.html.tmpl", factory)
}

// LoadFeedTemplates parses the feed template tree.
func LoadFeedTemplates() (templatetree.Tree[*text.Template], error) {
	factory := func(name string) templatetree.Template[*text.Template] {
		return text.New(name).Funcs(text.FuncMap{
			"xml": xmlEscaper.Replace,
			"rfc3339": func(t time.Time) string {
				return t.UTC().Format(time.RFC3339)
			},
		})
	}
	return templatetree.ParseFS(web.FeedTemplates(), "*.xml.tmpl", factory)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Static serves the asset directory, or the embedded assets when no
// directory is configured.
func Static(prefix string, c *FilesConfig) http.Handler {
	var server http.Handler
	if c.Static != "" {
		server = http.FileServer(http.Dir(c.Static))
	} else {
		server = http.FileServer(http.FS(web.StaticAssets()))
	}
	return http.StripPrefix(prefix, server)
}

// StaticURL returns the base-path-aware URL of a static asset.
func StaticURL(basePath, name string) string {
	return path.Join("/", basePath, "static", name)
}

// HomeURL returns the base-path-aware URL of the post list.
func HomeURL(basePath string) string {
	return path.Join("/", basePath)
}

// PostURL returns the base-path-aware URL of a post.
func PostURL(basePath string, id int64) string {
	return path.Join("/", basePath, "posts", strconv.FormatInt(id, 10))
}

type listQuery struct {
	Page int `url:"page,omitempty"`
}

// HomePageURL returns the post list URL for a page number. Page one is the
// bare list URL.
func HomePageURL(basePath string, page int) string {
	u := HomeURL(basePath)
	if page <= 1 {
		return u
	}

	v, err := query.Values(listQuery{Page: page})
	if err != nil {
		return u
	}
	if qs := v.Encode(); qs != "" {
		u += "?" + qs
	}
	return u
}

// urlFor builds the url_for template global. Route names mirror the handler
// surfaces; unknown names return "#" so a typo is visible in the page instead
// of failing the render.
func urlFor(basePath string) func(args ...*pongo2.Value) *pongo2.Value {
	return func(args ...*pongo2.Value) *pongo2.Value {
		if len(args) == 0 {
			return pongo2.AsValue("#")
		}

		switch args[0].String() {
		case "home":
			return pongo2.AsValue(HomeURL(basePath))
		case "about":
			return pongo2.AsValue(path.Join("/", basePath, "about"))
		case "page":
			return pongo2.AsValue(path.Join("/", basePath, "page"))
		case "feed":
			return pongo2.AsValue(path.Join("/", basePath, "feed.xml"))
		case "login":
			return pongo2.AsValue(path.Join("/", basePath, "login"))
		case "admin":
			return pongo2.AsValue(path.Join("/", basePath, "admin"))
		case "post":
			if len(args) > 1 {
				return pongo2.AsValue(PostURL(basePath, int64(args[1].Integer())))
			}
		}
		return pongo2.AsValue("#")
	}
}
