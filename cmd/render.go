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
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/galleyio/galley/server/handler"
)

var renderCmdConfig struct {
	ConfigPath string
	Templates  string
	Context    string
}

var RenderCmd = &cobra.Command{
	Use:   "render [template]",
	Short: "Renders a site template to stdout.",
	Long:  "Renders the named site template with an optional JSON context, using the server config for the site identity when given.",
	Args:  cobra.ExactArgs(1),

	RunE: renderCmd,
}

func renderCmd(cmd *cobra.Command, args []string) error {
	var site handler.SiteConfig
	var files handler.FilesConfig

	if renderCmdConfig.ConfigPath != "" {
		cfg, err := readServerConfig(renderCmdConfig.ConfigPath)
		if err != nil {
			return err
		}
		site = cfg.Site
		files = cfg.Files
	}
	if renderCmdConfig.Templates != "" {
		files.Templates = renderCmdConfig.Templates
	}
	site.FillDefaults()

	engine, err := handler.LoadSiteTemplates(&files, &site, "", false)
	if err != nil {
		return err
	}

	var ctx map[string]interface{}
	if renderCmdConfig.Context != "" {
		bytes, err := os.ReadFile(renderCmdConfig.Context)
		if err != nil {
			return errors.Wrapf(err, "failed reading context file: %s", renderCmdConfig.Context)
		}
		if err := json.Unmarshal(bytes, &ctx); err != nil {
			return errors.Wrap(err, "failed parsing context file")
		}
	}

	return engine.Render(cmd.OutOrStdout(), args[0], ctx)
}

func init() {
	RootCmd.AddCommand(RenderCmd)

	RenderCmd.Flags().StringVarP(&renderCmdConfig.ConfigPath, "config", "c", "", "configuration file for the site identity")
	RenderCmd.Flags().StringVarP(&renderCmdConfig.Templates, "templates", "t", "", "template directory to render from instead of the embedded defaults")
	RenderCmd.Flags().StringVar(&renderCmdConfig.Context, "context", "", "JSON file with the template context")
}
