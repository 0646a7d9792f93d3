// Package logtail turns append-only log files into streams of complete
// lines. Each tracked file has a cursor (byte offset + pending partial line)
// that is advanced one bounded read step at a time, so a single scheduling
// pass can service many files without any of them blocking the others.
package logtail

import (
	"bytes"
	"io"
	"os"
)

// maxReadPerPoll bounds how many bytes one Poll call consumes from a sink.
// A session dumping output faster than this simply takes extra polls to
// drain; it cannot stall the loop.
const maxReadPerPoll = 256 * 1024

// Tail tracks one append-only log sink.
//
// A fresh Tail starts at offset 0, so (re)watching an existing sink
// re-delivers its full current content. If the sink shrinks below the
// consumed offset, disappears and comes back, or is replaced by a different
// file at the same path, the cursor resets to 0 and history is replayed.
// Rotation and truncation are handled transparently, never surfaced as
// errors.
type Tail struct {
	path    string
	offset  int64
	partial []byte

	// info identifies the file last polled, so a rename-replace at the
	// same path is detected even when the new file is not smaller.
	info os.FileInfo
}

// NewTail creates a cursor for the given sink path. The sink does not need
// to exist yet; Poll returns nothing until it appears.
func NewTail(path string) *Tail {
	return &Tail{path: path}
}

// Path returns the sink path this cursor tracks.
func (t *Tail) Path() string { return t.path }

// Offset returns the number of bytes consumed so far.
func (t *Tail) Offset() int64 { return t.offset }

// Poll performs one bounded read step and returns the complete lines it
// produced, without their terminators. A trailing fragment with no newline
// yet is buffered and emitted once its terminator arrives.
func (t *Tail) Poll() []string {
	fi, err := os.Stat(t.path)
	if err != nil {
		// Not created yet, or rotated away. Reset so a recreated sink
		// replays from the start.
		t.offset = 0
		t.partial = nil
		t.info = nil
		return nil
	}

	if t.info != nil && !os.SameFile(t.info, fi) {
		// A different file moved into place at the same path. Replay it
		// from the start even if it is not smaller than the old one.
		t.offset = 0
		t.partial = nil
	}
	t.info = fi

	if fi.Size() < t.offset {
		// Truncated or replaced with a smaller file.
		t.offset = 0
		t.partial = nil
	}
	if fi.Size() == t.offset {
		return nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil
	}

	buf := make([]byte, maxReadPerPoll)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return nil
	}
	t.offset += int64(n)

	data := append(t.partial, buf[:n]...)
	var lines []string
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := data[:i]
		line = bytes.TrimSuffix(line, []byte("\r"))
		lines = append(lines, string(line))
		data = data[i+1:]
	}
	// Copy the remainder out of the read buffer so the buffer can be freed.
	t.partial = append([]byte(nil), data...)
	return lines
}
