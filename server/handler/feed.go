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
	"net/http"
	"strings"
	text "text/template"
	"time"

	"github.com/bluekeyes/templatetree"

	"github.com/galleyio/galley/render"
)

const (
	feedEntryLimit   = 20
	feedSummaryWords = 40
)

// Feed renders the Atom feed for the newest posts.
type Feed struct {
	Base

	Templates templatetree.Tree[*text.Template]
	PublicURL string
}

type feedEntry struct {
	Title   string
	URL     string
	Author  string
	Summary string
	Updated time.Time
}

func (h *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.Posts.List(r.Context(), 0, feedEntryLimit)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(h.PublicURL, "/")

	updated := time.Now().UTC()
	entries := make([]feedEntry, 0, len(posts))
	for i, p := range posts {
		if i == 0 {
			updated = p.CreatedAt
		}
		entries = append(entries, feedEntry{
			Title:   p.Title,
			URL:     fmt.Sprintf("%s/posts/%d", base, p.ID),
			Author:  p.Author,
			Summary: render.Excerpt(p.Content, feedSummaryWords),
			Updated: p.CreatedAt,
		})
	}

	var data struct {
		Site    *SiteConfig
		SiteURL string
		FeedURL string
		Updated time.Time
		Entries []feedEntry
	}
	data.Site = h.Site
	data.SiteURL = base
	data.FeedURL = base + "/feed.xml"
	data.Updated = updated
	data.Entries = entries

	var buf bytes.Buffer
	if err := h.Templates.ExecuteTemplate(&buf, "feed.xml.tmpl", &data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = buf.WriteTo(w)
	return err
}
