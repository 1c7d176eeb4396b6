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

package version

// Set by the linker at build time. The defaults identify development builds.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersion returns the version string injected at build time.
func GetVersion() string {
	return version
}

// GetCommit returns the VCS commit the binary was built from.
func GetCommit() string {
	return commit
}

// GetBuildDate returns the timestamp recorded at build time.
func GetBuildDate() string {
	return date
}
