// Package buffer provides the re-seekable read window used by file handles.
//
// A Window owns a single allocation and tracks which byte range of the remote
// object it currently holds, plus a cursor for sequential draining. All
// offsets are absolute object offsets; the window never fetches data itself.
package buffer

// Window is a single-allocation read buffer over a contiguous byte range of
// a remote object. The zero range (start == end) means the window holds no
// valid data. Not safe for concurrent use; each file handle owns one.
type Window struct {
	buf   []byte
	start int64 // object offset of buf[0]
	end   int64 // object offset one past the last valid byte
	idx   int64 // drain cursor, relative to start
}

// NewWindow allocates a window with the given capacity in bytes.
func NewWindow(capacity int64) *Window {
	return &Window{buf: make([]byte, capacity)}
}

// Capacity returns the size of the underlying allocation.
func (w *Window) Capacity() int64 {
	return int64(len(w.buf))
}

// Seek positions the drain cursor at the absolute offset location. When
// location falls inside the held range the cursor is placed and Seek reports
// true; otherwise the window is reset to empty and Seek reports false.
func (w *Window) Seek(location int64) bool {
	if location >= w.start && location < w.end {
		w.idx = location - w.start
		return true
	}
	w.Reset()
	return false
}

// Available returns the number of valid bytes between the cursor and the end
// of the held range.
func (w *Window) Available() int64 {
	if w.end <= w.start {
		return 0
	}
	return (w.end - w.start) - w.idx
}

// Drain copies up to len(p) available bytes starting at the cursor into p,
// advances the cursor, and returns the number of bytes copied.
func (w *Window) Drain(p []byte) int64 {
	n := min(int64(len(p)), w.Available())
	if n > 0 {
		copy(p[:n], w.buf[w.idx:w.idx+n])
		w.idx += n
	}
	return n
}

// Fill returns the first n bytes of the underlying allocation as the
// destination for a refill. The caller must Commit after writing into it.
func (w *Window) Fill(n int64) []byte {
	return w.buf[:n]
}

// Commit records that the underlying allocation now holds n valid bytes of
// object data starting at absolute offset start, with the cursor at start.
func (w *Window) Commit(start, n int64) {
	w.start = start
	w.end = start + n
	w.idx = 0
}

// Reset discards the held range. Subsequent Seek calls miss until the next
// Commit.
func (w *Window) Reset() {
	w.start = 0
	w.end = 0
	w.idx = 0
}

// Empty reports whether the window holds no valid data.
func (w *Window) Empty() bool {
	return w.start == w.end
}

// Span returns the absolute object range currently held.
func (w *Window) Span() (start, end int64) {
	return w.start, w.end
}
