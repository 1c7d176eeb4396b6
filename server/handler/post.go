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

	"github.com/pkg/errors"
	"goji.io/pat"

	"github.com/galleyio/galley/store"
)

// Post renders a single post page.
type Post struct {
	Base
}

func (h *Post) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(pat.Param(r, "id"), 10, 64)
	if err != nil {
		return h.render404(w, r, "That post does not exist.")
	}

	post, err := h.Posts.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return h.render404(w, r, "That post does not exist.")
	}
	if err != nil {
		return err
	}

	return h.renderPage(w, r, "post.html", map[string]interface{}{
		"post": post,
	})
}
