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

func TestPost(t *testing.T) {
	base := newTestBase(t)
	mux := newTestMux()
	mux.Handle(pat.Get("/posts/:id"), hatpear.Try(&Post{Base: base}))

	t.Run("rendersPost", func(t *testing.T) {
		rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/posts/1", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "First Post")
		assert.Contains(t, body, "This is the first blog post")
		assert.Contains(t, body, "By John Doe")
		assert.Contains(t, body, "min read")
		assert.Contains(t, body, "Quick read")
	})

	t.Run("missingPostRenders404", func(t *testing.T) {
		rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/posts/999", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "That post does not exist.")
	})

	t.Run("badIDRenders404", func(t *testing.T) {
		rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/posts/abc", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "That post does not exist.")
	})
}
