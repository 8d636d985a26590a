// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
name: qemu-minimal
layers:
  - uri: git://git.yoctoproject.org/poky
    revision: kirkstone
  - uri: git://git.openembedded.org/meta-openembedded
    revision: kirkstone
bitbake:
  image: core-image-minimal
  setup:
    - cd: layers/poky
      call: source oe-init-build-env ../../build
    - call: echo ready
setup:
  command:
    - call: git log -1
      path: layers/poky
    - call: ls | wc -l
      path: layers
      shell: true
`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "qemu-minimal", def.Name)
	assert.Equal(t, []Layer{
		{URI: "git://git.yoctoproject.org/poky", Revision: "kirkstone"},
		{URI: "git://git.openembedded.org/meta-openembedded", Revision: "kirkstone"},
	}, def.Layers)

	require.NotNil(t, def.Bitbake)
	assert.Equal(t, "bitbake core-image-minimal", def.Bitbake.Command())
	assert.Equal(t,
		"cd layers/poky && source oe-init-build-env ../../build\ncd . && echo ready\n",
		def.Bitbake.SetupScript())

	assert.Equal(t, []SetupCommand{
		{Call: "git log -1", Path: "layers/poky"},
		{Call: "ls | wc -l", Path: "layers", Shell: true},
	}, def.SetupCommands())
}

func TestParse_Minimal(t *testing.T) {
	def, err := Parse([]byte("name: x\nlayers: []\nbitbake:\n  image: img\n"))
	require.NoError(t, err)

	assert.Empty(t, def.Layers)
	assert.Nil(t, def.SetupCommands())
	assert.Empty(t, def.Bitbake.SetupScript())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains []string
	}{
		{
			name:     "empty document",
			yaml:     "{}",
			contains: []string{"name", "layers", "bitbake"},
		},
		{
			name:     "missing image and layer fields",
			yaml:     "name: x\nlayers:\n  - uri: git://h/r\nbitbake:\n  setup:\n    - cd: here\n",
			contains: []string{"layers[0].revision", "bitbake.image", "bitbake.setup[0].call"},
		},
		{
			name:     "setup command without path",
			yaml:     "name: x\nlayers: []\nbitbake:\n  image: i\nsetup:\n  command:\n    - call: echo hi\n",
			contains: []string{"setup.command[0].path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrConfigInvalid)

			for _, c := range tt.contains {
				assert.Contains(t, err.Error(), c)
			}
		})
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unterminated"))
	require.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/yoctales.yml", []byte(fullConfig), 0o644))

	stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
	defer stubs.Reset()

	def, err := Load("/cfg/yoctales.yml")
	require.NoError(t, err)
	assert.Equal(t, "qemu-minimal", def.Name)

	_, err = Load("/cfg/missing.yml")
	require.ErrorIs(t, err, ErrReadConfig)

	require.NoError(t, afero.WriteFile(fs, "/cfg/bad.yml", []byte("name: x\n"), 0o644))
	_, err = Load("/cfg/bad.yml")
	require.ErrorIs(t, err, ErrConfigInvalid)
	assert.Contains(t, err.Error(), "/cfg/bad.yml")
}
