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

package render

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// fsLoader adapts an fs.FS to pongo2's TemplateLoader interface so that the
// engine can serve templates from a directory and from assets embedded in the
// binary through the same code path.
type fsLoader struct {
	fsys fs.FS
}

func newFSLoader(fsys fs.FS) *fsLoader {
	return &fsLoader{fsys: fsys}
}

// Abs resolves template references. Template names are always interpreted
// relative to the root of the file system, so includes and extends use the
// same paths no matter which template mentions them.
func (l *fsLoader) Abs(base, name string) string {
	return path.Clean(strings.TrimPrefix(name, "/"))
}

// Get returns a reader for the named template.
func (l *fsLoader) Get(p string) (io.Reader, error) {
	if !fs.ValidPath(p) {
		return nil, errors.Errorf("invalid template path: %s", p)
	}

	b, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}
