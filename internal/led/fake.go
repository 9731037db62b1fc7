package led

import "sync"

// FakeDriver is a test double that records every color set on it.
// Safe for concurrent use: the feedback scheduler drives it from its
// worker goroutine while tests inspect it.
type FakeDriver struct {
	mu    sync.Mutex
	calls []Color

	// SetError, if set, will be returned by Set without recording.
	SetError error
}

// NewFakeDriver creates an empty FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Set records the color.
func (f *FakeDriver) Set(c Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.calls = append(f.calls, c)
	return nil
}

// Off records a Black set.
func (f *FakeDriver) Off() error {
	return f.Set(Black)
}

// Calls returns a copy of all recorded colors.
func (f *FakeDriver) Calls() []Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Color(nil), f.calls...)
}

// Last returns the most recently set color, or Black when nothing was
// set yet.
func (f *FakeDriver) Last() Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Black
	}
	return f.calls[len(f.calls)-1]
}

// CallCount returns how many sets were recorded.
func (f *FakeDriver) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Reset clears recorded calls.
func (f *FakeDriver) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

var _ Driver = (*FakeDriver)(nil)
