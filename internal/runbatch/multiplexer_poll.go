// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package runbatch

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var _ Multiplexer = (*pollMultiplexer)(nil)

// pollMultiplexer waits on the pipe descriptors with poll(2).
type pollMultiplexer struct {
	files [2]*os.File
	fds   [2]int32
	ended [2]bool
}

// NewMultiplexer returns the poll(2) based Multiplexer for this platform.
func NewMultiplexer(stdout, stderr *os.File) (Multiplexer, error) {
	m := &pollMultiplexer{files: [2]*os.File{stdout, stderr}}

	// Fd switches the file to blocking mode; reads only happen after poll reports readiness.
	for i, f := range m.files {
		m.fds[i] = int32(f.Fd()) //nolint:gosec
	}

	return m, nil
}

func (m *pollMultiplexer) Wait() ([]StreamID, error) {
	fds := make([]unix.PollFd, 0, len(m.fds))
	ids := make([]StreamID, 0, len(m.fds))

	for i, fd := range m.fds {
		if m.ended[i] {
			continue
		}

		fds = append(fds, unix.PollFd{Fd: fd, Events: unix.POLLIN})
		ids = append(ids, StreamID(i))
	}

	if len(fds) == 0 {
		return nil, io.EOF
	}

	for {
		_, err := unix.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return nil, err
		}

		break
	}

	ready := make([]StreamID, 0, len(fds))

	for i, pfd := range fds {
		if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			ready = append(ready, ids[i])
		}
	}

	return ready, nil
}

func (m *pollMultiplexer) Read(id StreamID, p []byte) (int, error) {
	n, err := m.files[id].Read(p)
	if errors.Is(err, io.EOF) {
		m.ended[id] = true
	}

	return n, err //nolint:wrapcheck
}

func (m *pollMultiplexer) Close() error {
	return errors.Join(m.files[StdOut].Close(), m.files[StdErr].Close())
}
