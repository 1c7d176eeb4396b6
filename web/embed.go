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

// Package web carries Galley's default templates and static assets, compiled
// into the binary so a bare `galley server` renders a working site. Configured
// directories override these defaults.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var content embed.FS

// SiteTemplates returns the embedded site template tree.
func SiteTemplates() fs.FS {
	return mustSub("templates/site")
}

// AdminTemplates returns the embedded dashboard template tree.
func AdminTemplates() fs.FS {
	return mustSub("templates/admin")
}

// FeedTemplates returns the embedded feed template tree.
func FeedTemplates() fs.FS {
	return mustSub("templates/feed")
}

// StaticAssets returns the embedded static asset tree.
func StaticAssets() fs.FS {
	return mustSub("static")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
