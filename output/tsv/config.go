/*
 *
 * k6 - a next-generation load testing tool
 * Copyright (C) 2016 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package tsv

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mstoykov/envconfig"
	"gopkg.in/guregu/null.v3"
)

// Config is the configuration of the results file output.
type Config struct {
	FileName null.String `json:"fileName" envconfig:"K6BENCH_OUT_FILE"`
	Gzip     null.Bool   `json:"gzip" envconfig:"K6BENCH_OUT_GZIP"`
}

// NewConfig creates a new Config instance with default values for some fields.
func NewConfig() Config {
	return Config{
		FileName: null.NewString("results.tsv", false),
		Gzip:     null.NewBool(false, false),
	}
}

// Apply merges two configs by overwriting properties in the old config
func (c Config) Apply(cfg Config) Config {
	if cfg.FileName.Valid {
		c.FileName = cfg.FileName
	}
	if cfg.Gzip.Valid {
		c.Gzip = cfg.Gzip
	}
	return c
}

// Compressed reports whether the file is written gzipped, either because
// it was asked for or because the file name ends in ".gz".
func (c Config) Compressed() bool {
	return c.Gzip.Bool || strings.HasSuffix(c.FileName.String, ".gz")
}

// ParseArg takes an arg string and converts it to a config. The argument is
// either a plain file name or a comma separated list of key=value pairs.
func ParseArg(arg string) (Config, error) {
	c := Config{}

	if !strings.Contains(arg, "=") {
		c.FileName = null.StringFrom(arg)
		return c, nil
	}

	for _, pair := range strings.Split(arg, ",") {
		r := strings.SplitN(pair, "=", 2)
		if len(r) != 2 {
			return c, fmt.Errorf("couldn't parse %q as argument for the results output", arg)
		}
		switch r[0] {
		case "file", "fileName":
			c.FileName = null.StringFrom(r[1])
		case "gzip":
			if err := c.Gzip.UnmarshalText([]byte(r[1])); err != nil {
				return c, fmt.Errorf("gzip must be true or false, not %q", r[1])
			}
		default:
			return c, fmt.Errorf("unknown key %q as argument for the results output", r[0])
		}
	}

	return c, nil
}

// GetConsolidatedConfig combines {default config values + JSON config +
// environment vars + arg config values}, and returns the final result.
func GetConsolidatedConfig(
	jsonRawConf json.RawMessage, env map[string]string, arg string,
) (Config, error) {
	result := NewConfig()
	if jsonRawConf != nil {
		jsonConf := Config{}
		if err := json.Unmarshal(jsonRawConf, &jsonConf); err != nil {
			return result, err
		}
		result = result.Apply(jsonConf)
	}

	envConfig := Config{}
	if err := envconfig.Process("", &envConfig, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}); err != nil {
		return result, err
	}
	result = result.Apply(envConfig)

	if arg != "" {
		argConf, err := ParseArg(arg)
		if err != nil {
			return result, err
		}
		result = result.Apply(argConf)
	}

	return result, nil
}
