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

	"github.com/pkg/errors"

	"github.com/galleyio/galley/render"
	"github.com/galleyio/galley/server/apierror"
)

// Preview renders caller-supplied template source against a caller-supplied
// context and returns the HTML. Nothing is written to disk. The source can
// use every directive and global that disk templates can, so the route must
// stay behind a session.
type Preview struct {
	Engine      *render.Engine
	MaxBodySize int64
}

func (h *Preview) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	var in struct {
		Source  string                 `json:"source"`
		Context map[string]interface{} `json:"context"`
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.MaxBodySize))
	if err := dec.Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apierror.WriteAPIError(w, http.StatusRequestEntityTooLarge, "preview body too large")
		}
		return apierror.BadRequest(w, "invalid JSON body: "+err.Error())
	}

	html, err := h.Engine.RenderString(in.Source, in.Context)
	if err != nil {
		return apierror.WriteAPIError(w, http.StatusUnprocessableEntity, err.Error())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write([]byte(html))
	return err
}
