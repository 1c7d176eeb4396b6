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

// Package apierror writes JSON error responses with a single envelope shape
// so API clients can always read an "error" field.
package apierror

import (
	"net/http"
	"strings"

	"github.com/palantir/go-baseapp/baseapp"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteAPIError writes a JSON error with the given status code. The nil error
// return lets handlers end a request with `return apierror.WriteAPIError(...)`.
func WriteAPIError(w http.ResponseWriter, code int, message ...string) error {
	baseapp.WriteJSON(w, code, ErrorResponse{Error: strings.Join(message, "; ")})
	return nil
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, message string) error {
	return WriteAPIError(w, http.StatusNotFound, message)
}

// BadRequest writes a 400 error.
func BadRequest(w http.ResponseWriter, message string) error {
	return WriteAPIError(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 error.
func Unauthorized(w http.ResponseWriter, message string) error {
	return WriteAPIError(w, http.StatusUnauthorized, message)
}
