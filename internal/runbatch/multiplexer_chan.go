// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package runbatch

import (
	"errors"
	"os"
	"sync"
)

var _ Multiplexer = (*chanMultiplexer)(nil)

type chunk struct {
	id   StreamID
	data []byte
	err  error
}

// chanMultiplexer is used where pipes cannot be polled (Windows). A reader goroutine per pipe
// forwards chunks over one channel; the controlling loop still consumes them one at a time.
type chanMultiplexer struct {
	files   [2]*os.File
	ch      chan chunk
	pending [2][]chunk
	wg      sync.WaitGroup
}

// NewMultiplexer returns the channel based Multiplexer for this platform.
func NewMultiplexer(stdout, stderr *os.File) (Multiplexer, error) {
	m := &chanMultiplexer{
		files: [2]*os.File{stdout, stderr},
		ch:    make(chan chunk),
	}

	for i, f := range m.files {
		m.wg.Add(1)

		go m.pump(StreamID(i), f)
	}

	return m, nil
}

func (m *chanMultiplexer) pump(id StreamID, f *os.File) {
	defer m.wg.Done()

	for {
		buf := make([]byte, readChunkSize)

		n, err := f.Read(buf)
		if n > 0 {
			m.ch <- chunk{id: id, data: buf[:n]}
		}

		if err != nil {
			m.ch <- chunk{id: id, err: err}
			return
		}
	}
}

func (m *chanMultiplexer) Wait() ([]StreamID, error) {
	var ready []StreamID

	for i := range m.pending {
		if len(m.pending[i]) > 0 {
			ready = append(ready, StreamID(i))
		}
	}

	if len(ready) > 0 {
		return ready, nil
	}

	c := <-m.ch
	m.pending[c.id] = append(m.pending[c.id], c)

	return []StreamID{c.id}, nil
}

func (m *chanMultiplexer) Read(id StreamID, p []byte) (int, error) {
	if len(m.pending[id]) == 0 {
		return 0, nil
	}

	c := m.pending[id][0]
	if c.err != nil {
		m.pending[id] = m.pending[id][1:]
		return 0, c.err
	}

	n := copy(p, c.data)
	if n < len(c.data) {
		m.pending[id][0].data = c.data[n:]
	} else {
		m.pending[id] = m.pending[id][1:]
	}

	return n, nil
}

func (m *chanMultiplexer) Close() error {
	err := errors.Join(m.files[StdOut].Close(), m.files[StdErr].Close())

	done := make(chan struct{})

	go func() {
		m.wg.Wait()
		close(done)
	}()

	for {
		select {
		case <-m.ch:
		case <-done:
			return err
		}
	}
}
