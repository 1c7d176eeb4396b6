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
	"crypto/subtle"
	"html/template"
	"net/http"
	"path"

	"github.com/alexedwards/scs"
	"github.com/bluekeyes/hatpear"
	"github.com/bluekeyes/templatetree"
	"github.com/pkg/errors"

	"github.com/galleyio/galley/server/apierror"
)

const (
	SessionKeyUser     = "user"
	SessionKeyRedirect = "redirect"

	// adminUser is the only account; authentication is by shared password.
	adminUser = "admin"
)

// Login renders the admin sign-in form and checks submitted passwords. An
// empty configured password disables login entirely.
type Login struct {
	Sessions  *scs.Manager
	Templates templatetree.Tree[*template.Template]
	Password  string
	BasePath  string
}

func (h *Login) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	sess := h.Sessions.Load(r)

	user, err := sess.GetString(SessionKeyUser)
	if err != nil {
		return errors.Wrap(err, "failed to read session")
	}
	if user != "" {
		http.Redirect(w, r, path.Join("/", h.BasePath, "admin"), http.StatusFound)
		return nil
	}

	if r.Method != http.MethodPost {
		return h.renderForm(w, "")
	}

	if h.Password == "" {
		return h.renderForm(w, "Admin login is disabled.")
	}
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "failed to parse form")
	}

	password := r.PostFormValue("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.Password)) != 1 {
		return h.renderForm(w, "Wrong password.")
	}

	if err := sess.PutString(w, SessionKeyUser, adminUser); err != nil {
		return errors.Wrap(err, "failed to save session")
	}

	// go to the dashboard or back to the page that required login
	target, err := sess.GetString(SessionKeyRedirect)
	if err != nil {
		return errors.Wrap(err, "failed to read session")
	}
	if target == "" {
		target = path.Join("/", h.BasePath, "admin")
	}

	http.Redirect(w, r, target, http.StatusFound)
	return nil
}

func (h *Login) renderForm(w http.ResponseWriter, flash string) error {
	var buf bytes.Buffer
	if err := h.Templates.ExecuteTemplate(&buf, "login.html.tmpl", struct {
		Flash string
	}{
		Flash: flash,
	}); err != nil {
		return errors.Wrap(err, "failed to render login page")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(buf.Bytes())
	return err
}

// Logout clears the session and returns to the sign-in page.
type Logout struct {
	Sessions *scs.Manager
	BasePath string
}

func (h *Logout) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	sess := h.Sessions.Load(r)
	if err := sess.Destroy(w); err != nil {
		return errors.Wrap(err, "failed to destroy session")
	}

	http.Redirect(w, r, path.Join("/", h.BasePath, "login"), http.StatusFound)
	return nil
}

// RequireLogin redirects browser requests to the sign-in page when the
// session has no user, remembering the original URL.
func RequireLogin(sessions *scs.Manager, basePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessions.Load(r)

			user, err := sess.GetString(SessionKeyUser)
			if err != nil {
				hatpear.Store(r, errors.Wrap(err, "failed to read session"))
				return
			}

			if user == "" {
				if err := sess.PutString(w, SessionKeyRedirect, r.URL.String()); err != nil {
					hatpear.Store(r, errors.Wrap(err, "failed to save session"))
					return
				}

				http.Redirect(w, r, path.Join("/", basePath, "login"), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPISession rejects requests without a signed-in session. Unlike
// RequireLogin it responds with a JSON error instead of a redirect, so API
// clients get a useful status code.
func RequireAPISession(sessions *scs.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessions.Load(r)

			user, err := sess.GetString(SessionKeyUser)
			if err != nil {
				hatpear.Store(r, errors.Wrap(err, "failed to read session"))
				return
			}

			if user == "" {
				_ = apierror.Unauthorized(w, "authentication required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
