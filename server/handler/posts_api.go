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
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/palantir/go-baseapp/baseapp"
	"github.com/pkg/errors"
	"goji.io/pat"

	"github.com/galleyio/galley/server/apierror"
	"github.com/galleyio/galley/store"
)

const maxPostBodySize = 1 << 20

// ListPosts returns every post as JSON, in publication order.
type ListPosts struct {
	Base
}

func (h *ListPosts) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.Posts.All(r.Context())
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []*store.Post{}
	}

	baseapp.WriteJSON(w, http.StatusOK, posts)
	return nil
}

// GetPost returns a single post as JSON.
type GetPost struct {
	Base
}

func (h *GetPost) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(pat.Param(r, "id"), 10, 64)
	if err != nil {
		return apierror.BadRequest(w, "invalid post id")
	}

	post, err := h.Posts.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return apierror.NotFound(w, "post not found")
	}
	if err != nil {
		return err
	}

	baseapp.WriteJSON(w, http.StatusOK, post)
	return nil
}

// CreatePost stores a new post from a JSON body.
type CreatePost struct {
	Base
}

func (h *CreatePost) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	var in struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Author  string `json:"author"`
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPostBodySize))
	if err := dec.Decode(&in); err != nil {
		return apierror.BadRequest(w, "invalid JSON body: "+err.Error())
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Author = strings.TrimSpace(in.Author)
	if in.Title == "" || in.Content == "" || in.Author == "" {
		return apierror.BadRequest(w, "title, content, and author are required")
	}

	post := &store.Post{
		Title:   in.Title,
		Content: in.Content,
		Author:  in.Author,
	}
	if err := h.Posts.Create(r.Context(), post); err != nil {
		return err
	}

	baseapp.WriteJSON(w, http.StatusCreated, post)
	return nil
}

// DeletePost removes a post.
type DeletePost struct {
	Base
}

func (h *DeletePost) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(pat.Param(r, "id"), 10, 64)
	if err != nil {
		return apierror.BadRequest(w, "invalid post id")
	}

	err = h.Posts.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return apierror.NotFound(w, "post not found")
	}
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
