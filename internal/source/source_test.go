// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yoctales.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o600))

	src, err := Fetch(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, dir, src.Dir)
	assert.Equal(t, "yoctales.yml", src.File)
	assert.Equal(t, path, src.Path())

	require.NoError(t, src.Close())
	assert.FileExists(t, path, "local sources are not removed")
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{
			name: "empty url",
			url:  "",
		},
		{
			name: "remote without file name",
			url:  "https://example.com/config",
		},
		{
			name: "unreachable git repository",
			url:  "git::http://notexist.invalid/repo//yoctales.yml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Fetch(context.Background(), tt.url)
			require.ErrorIs(t, err, ErrGetConfigFile)
			assert.Nil(t, src)
		})
	}
}

func TestSplitFileNameFromGetterURL(t *testing.T) {
	tests := []struct {
		url      string
		wantURL  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/org/images//qemu/yoctales.yml?ref=main",
			wantURL:  "git::https://github.com/org/images//qemu?ref=main",
			wantFile: "yoctales.yml",
		},
		{
			url:      "git::https://github.com/org/images//yoctales.yml",
			wantURL:  "git::https://github.com/org/images",
			wantFile: "yoctales.yml",
		},
		{
			url: "https://example.com/yoctales.yml",
		},
		{
			url: "git::https://github.com/org/images//",
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			gotURL, gotFile := splitFileNameFromGetterURL(tt.url)
			assert.Equal(t, tt.wantURL, gotURL)
			assert.Equal(t, tt.wantFile, gotFile)
		})
	}
}
