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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	site := SiteConfig{}
	site.FillDefaults()
	h := &Validate{Engine: newTestEngine(t, &site), MaxBodySize: 1024}

	check := func(t *testing.T, source string) (int, ValidateCheck) {
		t.Helper()

		rec := httptest.NewRecorder()
		err := h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/validate", strings.NewReader(source)))
		require.NoError(t, err)

		var c ValidateCheck
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
		}
		return rec.Code, c
	}

	t.Run("validSource", func(t *testing.T) {
		code, c := check(t, `{% if x %}yes{% endif %}`)
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, c.OK)
		assert.Equal(t, "template parses", c.Message)
		assert.NotEmpty(t, c.Version)
	})

	t.Run("invalidSource", func(t *testing.T) {
		code, c := check(t, `{% if x %}unclosed`)
		assert.Equal(t, http.StatusOK, code)
		assert.False(t, c.OK)
		assert.NotEmpty(t, c.Message)
	})

	t.Run("tooLarge", func(t *testing.T) {
		code, _ := check(t, strings.Repeat("a", 2048))
		assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	})
}
