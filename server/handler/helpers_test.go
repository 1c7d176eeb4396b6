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
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bluekeyes/hatpear"
	"github.com/stretchr/testify/require"
	"goji.io"

	"github.com/galleyio/galley/render"
	"github.com/galleyio/galley/store"
)

func newTestStore(t *testing.T) *store.PostStore {
	t.Helper()

	posts, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = posts.Close()
	})

	require.NoError(t, posts.Seed(context.Background()))
	return posts
}

func newTestEngine(t *testing.T, site *SiteConfig) *render.Engine {
	t.Helper()

	engine, err := LoadSiteTemplates(&FilesConfig{}, site, "", false)
	require.NoError(t, err)
	return engine
}

func newTestBase(t *testing.T) Base {
	t.Helper()

	site := SiteConfig{}
	site.FillDefaults()

	return Base{
		Engine: newTestEngine(t, &site),
		Posts:  newTestStore(t),
		Site:   &site,
	}
}

// newTestMux wires handlers the way the server does, with error-catching
// middleware so hatpear handlers work.
func newTestMux() *goji.Mux {
	mux := goji.NewMux()
	mux.Use(hatpear.Catch(func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}))
	return mux
}

func do(t *testing.T, h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}
