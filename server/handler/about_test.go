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
	"net/http/httptest"
	"testing"

	"github.com/bluekeyes/hatpear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goji.io/pat"
)

func TestAbout(t *testing.T) {
	base := newTestBase(t)
	base.Site.Author = "Jane Smith"

	about := hatpear.Try(&About{Base: base})
	mux := newTestMux()
	mux.Handle(pat.Get("/about"), about)
	mux.Handle(pat.Get("/page"), about)

	t.Run("rendersAboutPage", func(t *testing.T) {
		rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/about", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "About This Blog")
		assert.Contains(t, body, "This blog is created using Galley.")
		assert.Contains(t, body, "Written by Jane Smith.")
	})

	t.Run("bothRoutesMatch", func(t *testing.T) {
		first := do(t, mux, httptest.NewRequest(http.MethodGet, "/about", nil))
		second := do(t, mux, httptest.NewRequest(http.MethodGet, "/page", nil))

		require.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
	})
}
