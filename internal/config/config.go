// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

var (
	// ErrReadConfig is returned when the configuration file cannot be read or decoded.
	ErrReadConfig = errors.New("failed to read configuration")
	// ErrConfigInvalid is returned when a required field is missing or empty.
	ErrConfigInvalid = errors.New("invalid configuration")
)

// FsFactory returns the filesystem configuration files are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Definition is the root of a build description.
type Definition struct {
	Name    string   `yaml:"name"`
	Layers  []Layer  `yaml:"layers"`
	Bitbake *Bitbake `yaml:"bitbake"`
	Setup   *Setup   `yaml:"setup,omitempty"`
}

// Layer is a git repository of recipes checked out at a revision.
type Layer struct {
	URI      string `yaml:"uri"`
	Revision string `yaml:"revision"`
}

// Bitbake describes the image to build and the environment set up before building it.
type Bitbake struct {
	Image string        `yaml:"image"`
	Setup []BitbakeStep `yaml:"setup,omitempty"`
}

// BitbakeStep runs Call after changing into Cd, which defaults to the work directory.
type BitbakeStep struct {
	Cd   string `yaml:"cd,omitempty"`
	Call string `yaml:"call"`
}

// Setup holds commands run after the layers are cloned and before bitbake.
type Setup struct {
	Command []SetupCommand `yaml:"command"`
}

// SetupCommand runs Call in Path, relative to the work directory.
type SetupCommand struct {
	Call  string `yaml:"call"`
	Path  string `yaml:"path"`
	Shell bool   `yaml:"shell,omitempty"`
}

// Command returns the bitbake command line for the image.
func (b *Bitbake) Command() string {
	return "bitbake " + b.Image
}

// SetupScript returns one "cd <dir> && <call>" line per setup step.
func (b *Bitbake) SetupScript() string {
	var sb strings.Builder

	for _, s := range b.Setup {
		cd := s.Cd
		if cd == "" {
			cd = "."
		}

		fmt.Fprintf(&sb, "cd %s && %s\n", cd, s.Call)
	}

	return sb.String()
}

// SetupCommands returns the setup commands, or nil when there is no setup section.
func (d *Definition) SetupCommands() []SetupCommand {
	if d.Setup == nil {
		return nil
	}

	return d.Setup.Command
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Definition, error) {
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return def, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Definition, error) {
	def := new(Definition)
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return def, nil
}

// Validate reports every missing required field at once.
func (d *Definition) Validate() error {
	var result *multierror.Error

	if d.Name == "" {
		result = multierror.Append(result, missing("name"))
	}

	if d.Layers == nil {
		result = multierror.Append(result, missing("layers"))
	}

	for i, l := range d.Layers {
		if l.URI == "" {
			result = multierror.Append(result, missing(fmt.Sprintf("layers[%d].uri", i)))
		}

		if l.Revision == "" {
			result = multierror.Append(result, missing(fmt.Sprintf("layers[%d].revision", i)))
		}
	}

	if d.Bitbake == nil {
		result = multierror.Append(result, missing("bitbake"))
	} else {
		if d.Bitbake.Image == "" {
			result = multierror.Append(result, missing("bitbake.image"))
		}

		for i, s := range d.Bitbake.Setup {
			if s.Call == "" {
				result = multierror.Append(result, missing(fmt.Sprintf("bitbake.setup[%d].call", i)))
			}
		}
	}

	for i, c := range d.SetupCommands() {
		if c.Call == "" {
			result = multierror.Append(result, missing(fmt.Sprintf("setup.command[%d].call", i)))
		}

		if c.Path == "" {
			result = multierror.Append(result, missing(fmt.Sprintf("setup.command[%d].path", i)))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Join(ErrConfigInvalid, err)
	}

	return nil
}

func missing(field string) error {
	return fmt.Errorf("the field %s was not found", field)
}
