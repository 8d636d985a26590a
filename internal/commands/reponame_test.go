// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRepoName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"git://git.openembedded.org/meta-openembedded", "meta-openembedded"},
		{"git://git.yoctoproject.org/poky", "poky"},
		{"git://git.yoctoproject.org/poky.git", "poky"},
		{"git@github.com:marifante/super_repo.git", "super_repo"},
		{"git@github.com:super_repo.git", "super_repo"},
		{"https://github.com/example/repo.git", "repo"},
		{"http://github.com/example/repo", "repo"},
		{"ssh://git@github.com/example/repo", "repo"},
		{"https://github.com/too/many/segments", ""},
		{"invalid-uri", ""},
		{"not-a-valid git url", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRepoName(tt.uri))
		})
	}
}
