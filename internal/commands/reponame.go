// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import "regexp"

// repoURIPattern captures the host prefix, an optional owner segment and the repository name.
var repoURIPattern = regexp.MustCompile(
	`^(git(?:@|://)[^/:\s]+[:/]|https?://[^/:\s]+/|ssh://[^/:\s]+/)([^/:\s]+/)?([^/:\s]+?)(?:\.git)?$`,
)

const repoNameGroup = 3

// ParseRepoName returns the repository name of a git URI, without any ".git" suffix.
// git://, git@host:, http(s):// and ssh:// forms are understood. Anything else yields "".
//
//	git://git.yoctoproject.org/poky            => poky
//	git@github.com:marifante/super_repo.git    => super_repo
func ParseRepoName(uri string) string {
	m := repoURIPattern.FindStringSubmatch(uri)
	if m == nil {
		return ""
	}

	return m[repoNameGroup]
}
