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
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/bluekeyes/templatetree"

	"github.com/galleyio/galley/store"
	"github.com/galleyio/galley/version"
)

const dashboardRecentPosts = 5

// Dashboard summarizes the site for signed-in admins: post counts, the
// template inventory with preview links, and the most recent posts.
type Dashboard struct {
	Base

	Templates templatetree.Tree[*template.Template]
}

func (h *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	count, err := h.Posts.Count(ctx)
	if err != nil {
		return err
	}
	recent, err := h.Posts.List(ctx, 0, dashboardRecentPosts)
	if err != nil {
		return err
	}
	names, err := h.Engine.Names()
	if err != nil {
		return err
	}

	type templateRow struct {
		Name       string
		PreviewURL string
	}
	type postRow struct {
		URL    string
		Title  string
		Author string
	}
	var data struct {
		PostCount int64
		Templates []templateRow
		Posts     []postRow
		ReadOnly  bool
		Version   string
	}

	data.PostCount = count
	data.ReadOnly = h.Engine.Dir() == ""
	data.Version = version.GetVersion()

	for _, name := range names {
		preview := url.URL{
			Path:     path.Join("/", h.BasePath, "admin", "preview"),
			RawQuery: url.Values{"name": {name}}.Encode(),
		}
		data.Templates = append(data.Templates, templateRow{
			Name:       name,
			PreviewURL: preview.String(),
		})
	}
	for _, post := range recent {
		data.Posts = append(data.Posts, postRow{
			URL:    PostURL(h.BasePath, post.ID),
			Title:  post.Title,
			Author: post.Author,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	return h.Templates.ExecuteTemplate(w, "dashboard.html.tmpl", &data)
}

// AdminPreview renders a site template with sample data so edits can be
// checked before they reach visitors. Render failures are reported as plain
// text instead of the error page, since seeing the failure is the point.
type AdminPreview struct {
	Base
}

func (h *AdminPreview) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	name := r.URL.Query().Get("name")
	if err := ValidateTemplateName(name); err != nil {
		return h.render404(w, r, "That template does not exist.")
	}

	posts, err := h.Posts.List(r.Context(), 0, 3)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		posts = []*store.Post{samplePost()}
	}

	ctx := map[string]interface{}{
		"posts":    posts,
		"post":     posts[0],
		"total":    len(posts),
		"page":     1,
		"prev_url": "",
		"next_url": "",
		"message":  "This is a sample message.",
	}

	var buf bytes.Buffer
	if err := h.Engine.Render(&buf, name, ctx); err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, werr := fmt.Fprintf(w, "failed to render %s: %v\n", name, err)
		return werr
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = buf.WriteTo(w)
	return err
}

func samplePost() *store.Post {
	return &store.Post{
		ID:        1,
		Title:     "Sample Post",
		Content:   "This post stands in for real content while the store is empty.",
		Author:    "Galley",
		CreatedAt: time.Now().UTC(),
	}
}
