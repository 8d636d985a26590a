// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matt-FFFFFF/yoctales/internal/ctxlog"
	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
	"github.com/spf13/afero"
)

var _ Command = (*GitCloneCommand)(nil)

// GitCloneCommand clones a repository at a revision into its working directory.
// It does nothing when the repository has already been cloned.
type GitCloneCommand struct {
	spec     Spec
	runner   runbatch.Runner
	URI      string
	Revision string
	RepoName string
	RepoPath string
}

// NewGitCloneCommand creates a GitCloneCommand for uri at revision (a branch or tag) in cwd.
func NewGitCloneCommand(runner runbatch.Runner, name, uri, revision, cwd string) *GitCloneCommand {
	spec := Spec{
		Name: name,
		Call: fmt.Sprintf("git clone %s -b %s", runbatch.Quote(uri), runbatch.Quote(revision)),
		Cwd:  cwd,
	}
	repoName := ParseRepoName(uri)

	return &GitCloneCommand{
		spec:     spec,
		runner:   runnerOrDefault(runner),
		URI:      uri,
		Revision: revision,
		RepoName: repoName,
		RepoPath: filepath.Join(spec.Dir(), repoName),
	}
}

// Cloned reports whether RepoPath already holds a git repository.
func (c *GitCloneCommand) Cloned() bool {
	ok, err := afero.DirExists(FsFactory(), filepath.Join(c.RepoPath, ".git"))
	return err == nil && ok
}

// Execute implements Command.
func (c *GitCloneCommand) Execute(ctx context.Context) error {
	if c.Cloned() {
		ctxlog.Info(ctx, "repository already cloned", "uri", c.URI, "path", c.RepoPath)
		return nil
	}

	return runSpec(ctx, c.runner, c.spec)
}

// Describe implements Command.
func (c *GitCloneCommand) Describe() string {
	return describe(c.spec)
}

// Spec implements Command.
func (c *GitCloneCommand) Spec() Spec {
	return c.spec
}

func (c *GitCloneCommand) command() {}
