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

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/galleyio/galley/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version.",

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("galley %s (commit %s, built %s)\n", version.GetVersion(), version.GetCommit(), version.GetBuildDate())
	},
}

func init() {
	RootCmd.AddCommand(VersionCmd)
}
