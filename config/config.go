// seehuhn.de/go/mask - raster mask editing
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config reads the settings of the mask editor from YAML files.
//
// A complete file looks like this:
//
//	scene:
//	  width: 640
//	  height: 480
//	  frames: 100
//	tools:
//	  brush_size: 10
//	  brush_tip: circle
//	  remove_underlying: false
//	appearance:
//	  opacity: 0.3
//	  selected_opacity: 0.6
//	storage:
//	  path: ./masks.db
//	  in_memory: false
//	  job: default
//	log_level: info
//
// Omitted values keep their defaults, see [Default].
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/mask/annotation"
	"seehuhn.de/go/mask/store"
	"seehuhn.de/go/mask/tool"
)

// ErrInvalid is returned for configurations which fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all editor settings.
type Config struct {
	Scene      annotation.Scene      `yaml:"scene"`
	Tools      Tools                 `yaml:"tools"`
	Appearance annotation.Appearance `yaml:"appearance"`
	Storage    Storage               `yaml:"storage"`
	LogLevel   string                `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Tools holds the initial state of the tool panel.
type Tools struct {
	BrushSize        float64 `yaml:"brush_size" validate:"gt=0"`
	BrushTip         string  `yaml:"brush_tip" validate:"brushtip"`
	RemoveUnderlying bool    `yaml:"remove_underlying"`
}

// Storage says where jobs are saved.
type Storage struct {
	Path     string `yaml:"path" validate:"required_unless=InMemory true"`
	InMemory bool   `yaml:"in_memory"`
	Job      string `yaml:"job" validate:"required,excludesall=/"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("brushtip", func(fl validator.FieldLevel) bool {
		_, ok := tips[fl.Field().String()]
		return ok
	})
}

var tips = map[string]graphics.LineCapStyle{
	"circle": graphics.LineCapRound,
	"square": graphics.LineCapSquare,
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Scene: annotation.Scene{Width: 640, Height: 480, Frames: 1},
		Tools: Tools{
			BrushSize: 10,
			BrushTip:  "circle",
		},
		Appearance: annotation.DefaultAppearance,
		Storage: Storage{
			InMemory: true,
			Job:      "default",
		},
		LogLevel: "info",
	}
}

// Load reads a configuration file. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse reads a configuration from YAML data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	return nil
}

// Marshal returns the YAML form of the configuration.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return data, nil
}

// Tip returns the configured brush form.
func (c *Config) Tip() graphics.LineCapStyle {
	if tip, ok := tips[c.Tools.BrushTip]; ok {
		return tip
	}
	return graphics.LineCapRound
}

// Panel returns the initial tool panel state.
func (c *Config) Panel() tool.State {
	return tool.State{
		Tool:             tool.KindBrush,
		BrushSize:        c.Tools.BrushSize,
		Tip:              c.Tip(),
		RemoveUnderlying: c.Tools.RemoveUnderlying,
	}
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Store returns the settings for opening the job store.
func (c *Config) Store(log *slog.Logger) store.Config {
	var cfg store.Config
	if c.Storage.InMemory {
		cfg = store.InMemoryConfig()
	} else {
		cfg = store.DefaultConfig(c.Storage.Path)
	}
	cfg.Logger = log
	return cfg
}
