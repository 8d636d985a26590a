// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "strings"

// Quote returns s as a single POSIX shell word, so that Argv splits it back to s.
// Strings made only of safe characters are returned unchanged.
func Quote(s string) string {
	if s == "" {
		return "''"
	}

	if strings.IndexFunc(s, unsafeRune) < 0 {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Join quotes each word and joins them with spaces.
func Join(words ...string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = Quote(w)
	}

	return strings.Join(quoted, " ")
}

func unsafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}

	return !strings.ContainsRune("_@%+=:,./-", r)
}
