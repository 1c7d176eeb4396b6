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
	"io"
	"net/http"

	"github.com/palantir/go-baseapp/baseapp"
	"github.com/pkg/errors"

	"github.com/galleyio/galley/render"
	"github.com/galleyio/galley/server/apierror"
	"github.com/galleyio/galley/version"
)

// ValidateCheck reports whether submitted template source parses. Parse
// errors carry the line and column when the engine provides them.
type ValidateCheck struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// Validate checks template source for syntax errors without executing it.
type Validate struct {
	Engine      *render.Engine
	MaxBodySize int64
}

func (h *Validate) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apierror.WriteAPIError(w, http.StatusRequestEntityTooLarge, "template source too large")
		}
		return errors.Wrap(err, "failed to read request body")
	}

	check := ValidateCheck{
		OK:      true,
		Message: "template parses",
		Version: version.GetVersion(),
	}
	if err := h.Engine.Validate(string(body)); err != nil {
		check.OK = false
		check.Message = err.Error()
	}

	baseapp.WriteJSON(w, http.StatusOK, check)
	return nil
}
