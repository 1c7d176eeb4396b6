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

package server

import (
	"os"
	"strconv"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/palantir/go-baseapp/baseapp"
	"github.com/palantir/go-baseapp/baseapp/datadog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/galleyio/galley/server/handler"
)

const (
	DefaultEnvPrefix = "GALLEY_"
)

type Config struct {
	Server    baseapp.HTTPConfig  `yaml:"server"`
	Logging   LoggingConfig       `yaml:"logging"`
	Sessions  SessionsConfig      `yaml:"sessions"`
	Admin     AdminConfig         `yaml:"admin"`
	Site      handler.SiteConfig  `yaml:"site"`
	Files     handler.FilesConfig `yaml:"files"`
	Store     StoreConfig         `yaml:"store"`
	Templates TemplatesConfig     `yaml:"templates"`
	Cache     CachingConfig       `yaml:"cache"`
	Datadog   datadog.Config      `yaml:"datadog"`
}

type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	Text  bool   `yaml:"text" json:"text"`
}

func (c *LoggingConfig) SetValuesFromEnv(prefix string) {
	if v, ok := os.LookupEnv(prefix + "LOG_LEVEL"); ok {
		c.Level = v
	}
	if v, ok := os.LookupEnv(prefix + "LOG_TEXT"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Text = b
		}
	}
}

type SessionsConfig struct {
	Key      string `yaml:"key"`
	Lifetime string `yaml:"lifetime"`
}

// AdminConfig gates the dashboard and the write APIs. An empty password
// disables admin logins entirely.
type AdminConfig struct {
	Password string `yaml:"password"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type TemplatesConfig struct {
	// Reload re-parses templates on every render so edits on disk take
	// effect immediately. Intended for development.
	Reload bool `yaml:"reload"`

	// MaxUploadSize bounds template bodies accepted by the management API.
	MaxUploadSize datasize.ByteSize `yaml:"max_upload_size"`
}

// CachingConfig bounds the rendered-page cache.
type CachingConfig struct {
	Pages int           `yaml:"pages"`
	TTL   time.Duration `yaml:"ttl"`
}

func ParseConfig(bytes []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(bytes, &c); err != nil {
		return nil, errors.Wrapf(err, "failed unmarshalling yaml")
	}

	envPrefix := DefaultEnvPrefix
	if v, ok := os.LookupEnv("GALLEY_ENV_PREFIX"); ok {
		envPrefix = v
	}

	c.Server.SetValuesFromEnv(envPrefix)
	c.Logging.SetValuesFromEnv(envPrefix)

	if v, ok := os.LookupEnv(envPrefix + "SESSIONS_KEY"); ok {
		c.Sessions.Key = v
	}
	if v, ok := os.LookupEnv(envPrefix + "ADMIN_PASSWORD"); ok {
		c.Admin.Password = v
	}
	if v, ok := os.LookupEnv(envPrefix + "STORE_PATH"); ok {
		c.Store.Path = v
	}

	return &c, nil
}
