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
	"bytes"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/galleyio/galley/render"
	"github.com/galleyio/galley/store"
)

// Base carries the dependencies shared by the site handlers.
type Base struct {
	Engine   *render.Engine
	Posts    *store.PostStore
	Site     *SiteConfig
	BasePath string
}

// render buffers the template output before writing so a failed render never
// sends a partial page.
func (b *Base) render(w http.ResponseWriter, status int, name string, ctx map[string]interface{}) error {
	var buf bytes.Buffer
	if err := b.Engine.Render(&buf, name, ctx); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// renderPage renders a site page. Render failures are logged and answered
// with the error page instead of propagating.
func (b *Base) renderPage(w http.ResponseWriter, r *http.Request, name string, ctx map[string]interface{}) error {
	if err := b.render(w, http.StatusOK, name, ctx); err != nil {
		return b.renderError(w, r, err)
	}
	return nil
}

func (b *Base) renderError(w http.ResponseWriter, r *http.Request, cause error) error {
	zerolog.Ctx(r.Context()).Error().Err(cause).Msg("failed to render page")

	if err := b.render(w, http.StatusInternalServerError, "error.html", nil); err != nil {
		// the error page is broken too, let the router respond
		return cause
	}
	return nil
}

func (b *Base) render404(w http.ResponseWriter, r *http.Request, message string) error {
	ctx := map[string]interface{}{}
	if message != "" {
		ctx["message"] = message
	}

	if err := b.render(w, http.StatusNotFound, "404.html", ctx); err != nil {
		return b.renderError(w, r, err)
	}
	return nil
}
