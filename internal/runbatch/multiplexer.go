// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io"
	"os"

	"github.com/matt-FFFFFF/yoctales/internal/teereader"
)

const readChunkSize = 32 * 1024

var (
	// ErrFailedToReadStream is returned when a child output pipe cannot be read.
	ErrFailedToReadStream = errors.New("failed to read output stream")
	// ErrWaitStreams is returned when waiting for stream readiness fails.
	ErrWaitStreams = errors.New("failed waiting for output streams")
)

// StreamID identifies one of the two output streams of a child process.
type StreamID int

const (
	// StdOut is the child's standard output.
	StdOut StreamID = iota
	// StdErr is the child's standard error.
	StdErr
)

func (s StreamID) String() string {
	if s == StdErr {
		return "stderr"
	}

	return "stdout"
}

// Multiplexer waits on both output streams of a child process from a single goroutine.
type Multiplexer interface {
	// Wait blocks until at least one stream that has not reached end-of-stream is readable or
	// closed, and returns those streams.
	Wait() ([]StreamID, error)
	// Read reads the data currently available on a ready stream without blocking.
	// It returns io.EOF once the stream has ended.
	Read(id StreamID, p []byte) (int, error)
	// Close releases the read ends of both streams.
	Close() error
}

// MultiplexerFactory creates the Multiplexer for the read ends of a child's pipes.
type MultiplexerFactory func(stdout, stderr *os.File) (Multiplexer, error)

// drain services both streams until each has reached end-of-stream, writing everything read into
// the matching tee. One chunk is read per ready stream per wakeup so neither stream can starve
// the other.
func drain(mux Multiplexer, stdout, stderr *teereader.LineTee) error {
	tees := [2]*teereader.LineTee{stdout, stderr}
	open := [2]bool{true, true}
	buf := make([]byte, readChunkSize)

	for open[StdOut] || open[StdErr] {
		ready, err := mux.Wait()
		if err != nil {
			return errors.Join(ErrWaitStreams, err)
		}

		for _, id := range ready {
			if !open[id] {
				continue
			}

			n, err := mux.Read(id, buf)
			if n > 0 {
				_, _ = tees[id].Write(buf[:n])
			}

			switch {
			case errors.Is(err, io.EOF):
				open[id] = false

				tees[id].Flush()
			case err != nil:
				return errors.Join(ErrFailedToReadStream, err)
			}
		}
	}

	return nil
}
