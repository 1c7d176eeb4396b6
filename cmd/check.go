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

	"github.com/galleyio/galley/render"
	"github.com/galleyio/galley/web"
)

var checkCmdConfig struct {
	Templates string
}

var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks that every site template parses.",
	Long:  "Parses every template in the given directory, or the embedded defaults, and reports the first syntax error.",

	RunE: checkCmd,
}

func checkCmd(cmd *cobra.Command, args []string) error {
	opts := render.Options{}
	if checkCmdConfig.Templates != "" {
		opts.Dir = checkCmdConfig.Templates
	} else {
		opts.FS = web.SiteTemplates()
	}

	engine, err := render.NewEngine(opts)
	if err != nil {
		return err
	}

	names, err := engine.Names()
	if err != nil {
		return err
	}
	if err := engine.ValidateAll(); err != nil {
		return err
	}

	cmd.Printf("ok: %d templates\n", len(names))
	return nil
}

func init() {
	RootCmd.AddCommand(CheckCmd)

	CheckCmd.Flags().StringVarP(&checkCmdConfig.Templates, "templates", "t", "", "template directory to check instead of the embedded defaults")
}
