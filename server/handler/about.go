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
)

// About renders the about page. The server registers it on more than one
// route, so every registration serves the same body.
type About struct {
	Base
}

func (h *About) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	return h.renderPage(w, r, "about.html", nil)
}
