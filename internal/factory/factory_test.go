// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package factory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/yoctales/internal/commands"
	"github.com/matt-FFFFFF/yoctales/internal/config"
	"github.com/matt-FFFFFF/yoctales/internal/plan"
	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	calls  []commands.Spec
	failOn string
}

func (r *recordingRunner) Run(_ context.Context, call string, shellMode bool, cwd string) runbatch.Outcome {
	r.calls = append(r.calls, commands.Spec{Call: call, Cwd: cwd, ShellMode: shellMode})

	if r.failOn != "" && strings.HasPrefix(call, r.failOn) {
		return runbatch.NewOutcome("", "failed\n", 1)
	}

	return runbatch.NewOutcome("", "", 0)
}

func testDefinition() *config.Definition {
	return &config.Definition{
		Name: "img",
		Layers: []config.Layer{
			{URI: "git://git.yoctoproject.org/poky", Revision: "kirkstone"},
			{URI: "git@github.com:openembedded/meta-openembedded.git", Revision: "kirkstone"},
		},
		Bitbake: &config.Bitbake{
			Image: "core-image-minimal",
			Setup: []config.BitbakeStep{{Cd: "layers/poky", Call: "source oe-init-build-env ../../build"}},
		},
		Setup: &config.Setup{
			Command: []config.SetupCommand{{Call: "echo hi", Path: "layers"}},
		},
	}
}

func TestScanBuildConfFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    []string
		wantErr bool
	}{
		{
			name:  "both present",
			files: []string{"/cfg/local.conf", "/cfg/bblayers.conf"},
			want:  []string{"/cfg/bblayers.conf", "/cfg/local.conf"},
		},
		{
			name:    "local.conf missing",
			files:   []string{"/cfg/bblayers.conf"},
			wantErr: true,
		},
		{
			name:    "nothing present",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for _, f := range tt.files {
				require.NoError(t, afero.WriteFile(fs, f, []byte("#"), 0o644))
			}

			stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
			defer stubs.Reset()

			got, err := ScanBuildConfFiles("/cfg")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBuildConfMissing)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPlan(t *testing.T) {
	fs := afero.NewMemMapFs()
	stubs := gostub.Stub(&commands.FsFactory, func() afero.Fs { return fs })
	defer stubs.Reset()

	r := &recordingRunner{}
	confFiles := []string{"/cfg/bblayers.conf", "/cfg/local.conf"}

	p, err := BuildPlan(context.Background(), testDefinition(), confFiles, Options{WorkRoot: "/w", Runner: r})
	require.NoError(t, err)

	want := []commands.Spec{
		{Name: "create work dir", Call: "mkdir -p /w/img/layers"},
		{Name: "clone layer   0", Call: "git clone git://git.yoctoproject.org/poky -b kirkstone", Cwd: "/w/img/layers"},
		{
			Name: "clone layer   1",
			Call: "git clone git@github.com:openembedded/meta-openembedded.git -b kirkstone",
			Cwd:  "/w/img/layers",
		},
		{Name: "create build conf dir", Call: "mkdir -p /w/img/build/conf"},
		{Name: "copy bblayers.conf", Call: "cp /cfg/bblayers.conf /w/img/build/conf"},
		{Name: "copy local.conf", Call: "cp /cfg/local.conf /w/img/build/conf"},
		{Name: "setup command   0", Call: "echo hi", Cwd: "/w/img/layers"},
		{Name: BuildScriptName, Call: "/w/img/build_image_with_bitbake_tmp_script", Cwd: "/w/img"},
	}

	cmds := p.Commands()
	require.Len(t, cmds, len(want))

	for i, c := range cmds {
		assert.Equal(t, want[i], c.Spec(), "step %d", i)
	}

	assert.IsType(t, &commands.GitCloneCommand{}, cmds[1])
	assert.IsType(t, &commands.ScriptCommand{}, cmds[7])
	assert.Empty(t, r.calls, "building a plan runs nothing")

	lines := strings.Split(p.Describe(), "\n")
	require.Len(t, lines, len(want))
	assert.Equal(t,
		"  7: build_image_with_bitbake  : /w/img                              : /w/img/build_image_with_bitbake_tmp_script",
		lines[7])

	script, err := afero.ReadFile(fs, "/w/img/build_image_with_bitbake_tmp_script")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(script), "#!/bin/bash\n# Auto-generated by yoctales on "))
	assert.True(t, strings.HasSuffix(string(script),
		"cd layers/poky && source oe-init-build-env ../../build\n\nbitbake core-image-minimal\n"))
}

func TestBuildPlan_NoLayersNoSetup(t *testing.T) {
	stubs := gostub.Stub(&commands.FsFactory, afero.NewMemMapFs)
	defer stubs.Reset()

	def := &config.Definition{Name: "bare", Layers: []config.Layer{}, Bitbake: &config.Bitbake{Image: "img"}}

	p, err := BuildPlan(context.Background(), def, nil, Options{WorkRoot: "/w"})
	require.NoError(t, err)

	require.Equal(t, 3, p.Len())
	assert.Equal(t, "create work dir", p.Commands()[0].Spec().Name)
	assert.Equal(t, "create build conf dir", p.Commands()[1].Spec().Name)
	assert.Equal(t, BuildScriptName, p.Commands()[2].Spec().Name)
}

func TestBuildPlan_ScriptWriteFails(t *testing.T) {
	stubs := gostub.Stub(&commands.FsFactory, func() afero.Fs { return afero.NewReadOnlyFs(afero.NewMemMapFs()) })
	defer stubs.Reset()

	_, err := BuildPlan(context.Background(), testDefinition(), nil, Options{WorkRoot: "/w"})
	require.ErrorIs(t, err, ErrBuildPlan)
	require.ErrorIs(t, err, commands.ErrScriptCreate)
}

func TestOptions_WorkDir(t *testing.T) {
	assert.Equal(t, filepath.Join("work", "img"), Options{}.WorkDir("img"))
	assert.Equal(t, filepath.Join("/srv/yocto", "img"), Options{WorkRoot: "/srv/yocto"}.WorkDir("img"))
}

// writeConfigDir lays out a configuration directory on the real filesystem, as source.Fetch
// resolves local paths with the os package.
func writeConfigDir(t *testing.T, withConf bool) string {
	t.Helper()

	dir := t.TempDir()
	cfg := "name: img\nlayers: []\nbitbake:\n  image: core-image-minimal\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yoctales.yml"), []byte(cfg), 0o600))

	if withConf {
		for _, f := range BuildConfFiles {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("# "+f+"\n"), 0o600))
		}
	}

	return filepath.Join(dir, "yoctales.yml")
}

func TestCreateImage(t *testing.T) {
	tests := []struct {
		name        string
		withConf    bool
		dryRun      bool
		failOn      string
		wantErr     error
		wantCalls   int
		wantResults int
	}{
		{
			name:     "dry run executes nothing",
			withConf: true,
			dryRun:   true,
		},
		{
			name:        "executes every step",
			withConf:    true,
			wantCalls:   5,
			wantResults: 5,
		},
		{
			name:        "stops at failing copy",
			withConf:    true,
			failOn:      "cp ",
			wantErr:     plan.ErrPlanFailed,
			wantCalls:   3,
			wantResults: 5,
		},
		{
			name:     "missing build configuration",
			withConf: false,
			wantErr:  ErrBuildConfMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRunner{failOn: tt.failOn}
			workRoot := t.TempDir()

			results, err := CreateImage(context.Background(), Options{
				ConfigURL: writeConfigDir(t, tt.withConf),
				DryRun:    tt.dryRun,
				WorkRoot:  workRoot,
				Runner:    r,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Len(t, r.calls, tt.wantCalls)
			assert.Len(t, results, tt.wantResults)

			if tt.withConf {
				assert.FileExists(t, filepath.Join(workRoot, "img", BuildScriptName+"_tmp_script"))
			}
		})
	}
}

func TestBuildPlan_PathsWithSpaces(t *testing.T) {
	stubs := gostub.Stub(&commands.FsFactory, afero.NewMemMapFs)
	defer stubs.Reset()

	confFiles := []string{"/my config/bblayers.conf", "/my config/local.conf"}

	p, err := BuildPlan(context.Background(), testDefinition(), confFiles, Options{WorkRoot: "/my builds"})
	require.NoError(t, err)

	want := map[string][]string{
		"create work dir":       {"mkdir", "-p", "/my builds/img/layers"},
		"create build conf dir": {"mkdir", "-p", "/my builds/img/build/conf"},
		"copy bblayers.conf":    {"cp", "/my config/bblayers.conf", "/my builds/img/build/conf"},
		"copy local.conf":       {"cp", "/my config/local.conf", "/my builds/img/build/conf"},
		BuildScriptName:         {"/my builds/img/build_image_with_bitbake_tmp_script"},
	}

	for _, c := range p.Commands() {
		argv, ok := want[c.Spec().Name]
		if !ok {
			continue
		}

		got, err := runbatch.Argv(c.Spec().Call, false, "")
		require.NoError(t, err)
		assert.Equal(t, argv, got, c.Spec().Name)
	}
}

func TestCreateImage_RunsInDirsWithSpaces(t *testing.T) {
	if _, err := os.Stat("/bin/bash"); err != nil {
		t.Skip("/bin/bash is not available")
	}

	root := t.TempDir()
	cfgDir := filepath.Join(root, "my config")
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.MkdirAll(bin, 0o755))

	cfg := "name: img\nlayers: []\nbitbake:\n  image: core-image-minimal\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "yoctales.yml"), []byte(cfg), 0o600))

	for _, f := range BuildConfFiles {
		require.NoError(t, os.WriteFile(filepath.Join(cfgDir, f), []byte("# "+f+"\n"), 0o600))
	}

	require.NoError(t, os.WriteFile(filepath.Join(bin, "bitbake"), []byte("#!/bin/sh\nexit 0\n"), 0o755)) //nolint:gosec

	workRoot := filepath.Join(root, "my builds")

	results, err := CreateImage(context.Background(), Options{
		ConfigURL: filepath.Join(cfgDir, "yoctales.yml"),
		WorkRoot:  workRoot,
		Runner:    &runbatch.OSRunner{Env: []string{"PATH=" + bin + ":/usr/bin:/bin"}},
	})
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.False(t, results.HasError())

	for _, f := range BuildConfFiles {
		assert.FileExists(t, filepath.Join(workRoot, "img", "build", "conf", f))
	}
}
