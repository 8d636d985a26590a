// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package source resolves the location of a build description to a local directory.
// The build configuration files (bblayers.conf, local.conf) are expected next to the description,
// so remote locations are always fetched as a whole directory.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/yoctales/internal/ctxlog"
)

// ErrGetConfigFile is returned when the configuration cannot be located or fetched.
var ErrGetConfigFile = errors.New("failed to get config file")

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // Minimum parts in a go-getter URL: scheme, host, and path
	tempDirPattern        = "yoctales-getter-*"
)

// Source is a configuration file available on the local filesystem.
type Source struct {
	Dir  string // Directory holding the configuration file and its siblings.
	File string // Base name of the configuration file.

	tmpDir string
}

// Path returns the full path of the configuration file.
func (s *Source) Path() string {
	return filepath.Join(s.Dir, s.File)
}

// Close removes anything that was downloaded. Local sources are left alone.
func (s *Source) Close() error {
	if s.tmpDir == "" {
		return nil
	}

	return os.RemoveAll(s.tmpDir) //nolint:wrapcheck
}

// Fetch makes the configuration at url available locally.
// An existing local file is used in place. Anything else is handed to go-getter, for example
// "git::https://github.com/org/repo//images/qemu/yoctales.yml?ref=main".
func Fetch(ctx context.Context, url string) (*Source, error) {
	if url == "" {
		return nil, ErrGetConfigFile
	}

	if info, err := os.Stat(url); err == nil && info.Mode().IsRegular() {
		abs, err := filepath.Abs(url)
		if err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}

		return &Source{Dir: filepath.Dir(abs), File: filepath.Base(abs)}, nil
	}

	tmpDir, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	src, err := fetch(ctx, url, tmpDir)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}

	return src, nil
}

func fetch(ctx context.Context, url, tmpDir string) (*Source, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	cli := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// only the directory can be fetched, so split the file name off remote URLs
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	ctxlog.Debug(ctx, "fetching configuration", "src", req.Src, "dst", req.Dst)

	res, err := cli.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	src := &Source{Dir: res.Dst, File: fileName, tmpDir: tmpDir}

	if _, err := os.Stat(src.Path()); err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return src, nil
}

// splitFileNameFromGetterURL splits "proto::host/repo//dir/file?ref=x" into the directory URL
// "proto::host/repo//dir?ref=x" and the file name.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref, fileName string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	if strings.Contains(last, goGetterRefSeparator) {
		refSplit := strings.Split(last, goGetterRefSeparator)
		if len(refSplit) > 1 {
			ref = strings.Join(refSplit[1:], "")
		}

		last = refSplit[0]
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName = filepath.Base(last)
	parts[len(parts)-1] = filepath.Dir(last)

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1]
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
