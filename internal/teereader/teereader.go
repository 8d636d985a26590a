// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"strings"
	"sync"
)

var _ interface{ Write([]byte) (int, error) } = (*LineTee)(nil)

// LineTee accumulates a byte stream and emits complete lines.
// Emitted lines have the trailing "\n" (and a "\r" before it) removed; the accumulated buffer keeps
// the stream exactly as written. It is safe for concurrent use.
type LineTee struct {
	full     bytes.Buffer
	partial  bytes.Buffer
	lastLine string
	onLine   func(line string)
	mu       sync.RWMutex
}

// New creates a LineTee. onLine may be nil.
func New(onLine func(line string)) *LineTee {
	if onLine == nil {
		onLine = func(string) {}
	}

	return &LineTee{onLine: onLine}
}

// Write implements io.Writer. It never returns an error.
func (t *LineTee) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	t.mu.Lock()
	t.full.Write(p)

	var lines []string

	rest := p
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}

		t.partial.Write(rest[:i])
		lines = append(lines, strings.TrimSuffix(t.partial.String(), "\r"))
		t.partial.Reset()
		rest = rest[i+1:]
	}

	t.partial.Write(rest)

	if len(lines) > 0 {
		t.lastLine = lines[len(lines)-1]
	}
	t.mu.Unlock()

	// callbacks run without the lock so they may call back into the tee
	for _, l := range lines {
		t.onLine(l)
	}

	return len(p), nil
}

// Flush emits any trailing data that was not terminated by a newline.
// The accumulated buffer is not changed.
func (t *LineTee) Flush() {
	t.mu.Lock()
	if t.partial.Len() == 0 {
		t.mu.Unlock()
		return
	}

	line := strings.TrimSuffix(t.partial.String(), "\r")
	t.partial.Reset()
	t.lastLine = line
	t.mu.Unlock()

	t.onLine(line)
}

// String returns everything written so far.
func (t *LineTee) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.full.String()
}

// Len returns the number of bytes written so far.
func (t *LineTee) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.full.Len()
}

// LastLine returns the most recent complete line. When maxLength > 3 and the line is longer,
// it is truncated and suffixed with "...".
func (t *LineTee) LastLine(maxLength int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if maxLength > 3 && len(t.lastLine) > maxLength {
		return t.lastLine[:maxLength-3] + "..."
	}

	return t.lastLine
}

// PartialLine returns data received after the last newline.
func (t *LineTee) PartialLine() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.partial.String()
}
