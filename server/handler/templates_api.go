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
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/palantir/go-baseapp/baseapp"
	"github.com/pkg/errors"
	"goji.io/pattern"

	"github.com/galleyio/galley/render"
	"github.com/galleyio/galley/server/apierror"
	"github.com/galleyio/galley/server/middleware"
)

// TemplateList reports the template inventory and whether it can be edited.
type TemplateList struct {
	Engine *render.Engine
}

func (h *TemplateList) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	names, err := h.Engine.Names()
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}

	baseapp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"templates": names,
		"writable":  h.Engine.Dir() != "",
	})
	return nil
}

// TemplateFile reads, writes, and deletes a single template file. The file
// name is the path below /api/templates/, so templates in subdirectories
// work. Writes are syntax-checked first and land atomically; when the engine
// serves the embedded defaults there is no directory to write to and writes
// are rejected.
type TemplateFile struct {
	Engine        *render.Engine
	Cache         *middleware.PageCache
	MaxUploadSize int64
}

func (h *TemplateFile) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	name := strings.TrimPrefix(pattern.Path(r.Context()), "/")
	if err := ValidateTemplateName(name); err != nil {
		return apierror.BadRequest(w, err.Error())
	}

	switch r.Method {
	case http.MethodGet:
		return h.get(w, name)
	case http.MethodPut:
		return h.put(w, r, name)
	case http.MethodDelete:
		return h.delete(w, name)
	default:
		return apierror.WriteAPIError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *TemplateFile) get(w http.ResponseWriter, name string) error {
	src, err := h.Engine.Source(name)
	if errors.Is(err, fs.ErrNotExist) {
		return apierror.NotFound(w, "no such template")
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read template %q", name)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(src)
	return err
}

func (h *TemplateFile) put(w http.ResponseWriter, r *http.Request, name string) error {
	dir := h.Engine.Dir()
	if dir == "" {
		return apierror.WriteAPIError(w, http.StatusConflict,
			"templates are read-only: configure files.templates to enable editing")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxUploadSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apierror.WriteAPIError(w, http.StatusRequestEntityTooLarge, "template exceeds the size limit")
		}
		return errors.Wrap(err, "failed to read request body")
	}

	if err := h.Engine.Validate(string(body)); err != nil {
		return apierror.WriteAPIError(w, http.StatusUnprocessableEntity, err.Error())
	}

	full := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for template %q", name)
	}
	if err := atomic.WriteFile(full, bytes.NewReader(body)); err != nil {
		return errors.Wrapf(err, "failed to write template %q", name)
	}

	h.flush()
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *TemplateFile) delete(w http.ResponseWriter, name string) error {
	dir := h.Engine.Dir()
	if dir == "" {
		return apierror.WriteAPIError(w, http.StatusConflict,
			"templates are read-only: configure files.templates to enable editing")
	}

	err := os.Remove(filepath.Join(dir, filepath.FromSlash(name)))
	if os.IsNotExist(err) {
		return apierror.NotFound(w, "no such template")
	}
	if err != nil {
		return errors.Wrapf(err, "failed to delete template %q", name)
	}

	h.flush()
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *TemplateFile) flush() {
	h.Engine.Refresh()
	if h.Cache != nil {
		h.Cache.Purge()
	}
}

// TemplateRefresh drops the parsed-template cache and the rendered-page cache
// so edits made outside the API take effect.
type TemplateRefresh struct {
	Engine *render.Engine
	Cache  *middleware.PageCache
}

func (h *TemplateRefresh) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	h.Engine.Refresh()
	if h.Cache != nil {
		h.Cache.Purge()
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ValidateTemplateName rejects names that could escape the template
// directory or name something other than a template.
func ValidateTemplateName(name string) error {
	if name == "" {
		return errors.New("template name required")
	}
	if strings.Contains(name, `\`) || !fs.ValidPath(name) {
		return errors.Errorf("invalid template name: %s", name)
	}
	if !strings.HasSuffix(name, ".html") {
		return errors.New("template name must end in .html")
	}
	return nil
}
