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
	"net/http"
	"strconv"
)

// Home renders the paginated post list.
type Home struct {
	Base
}

func (h *Home) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			return h.render404(w, r, "No such page.")
		}
		page = p
	}

	size := h.Site.PageSize
	offset := (page - 1) * size

	total, err := h.Posts.Count(ctx)
	if err != nil {
		return err
	}

	posts, err := h.Posts.List(ctx, offset, size)
	if err != nil {
		return err
	}
	if page > 1 && len(posts) == 0 {
		return h.render404(w, r, "No such page.")
	}

	data := map[string]interface{}{
		"posts": posts,
		"total": total,
		"page":  page,
	}
	if page > 1 {
		data["prev_url"] = HomePageURL(h.BasePath, page-1)
	}
	if int64(offset+len(posts)) < total {
		data["next_url"] = HomePageURL(h.BasePath, page+1)
	}

	return h.renderPage(w, r, "index.html", data)
}
