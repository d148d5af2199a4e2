package editor

import (
	"maps"
	"slices"
	"sync"
)

const (
	// DefaultRegister receives every delete unless another register is named.
	DefaultRegister = '"'
	// ClipboardRegister is backed by the system clipboard when one is attached.
	ClipboardRegister = '+'
)

// Clipboard is the system clipboard as seen by the "+" register.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Register maps one-character keys to stored text. A single Register is
// shared by pointer among all buffers of a session, so writes made while
// editing one buffer are visible from the others.
//
// Register is safe for concurrent use.
type Register struct {
	mu        sync.RWMutex
	slots     map[rune]string
	clipboard Clipboard
	onClipErr func(error)
}

// NewRegister creates an empty register set.
func NewRegister() *Register {
	return &Register{slots: make(map[rune]string)}
}

// AttachClipboard backs the "+" register with c. Passing nil detaches it.
func (r *Register) AttachClipboard(c Clipboard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clipboard = c
}

// OnClipboardError installs fn to hear about clipboard reads and writes that
// fail. fn runs without the register lock held.
func (r *Register) OnClipboardError(fn func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onClipErr = fn
}

func reportClipboard(fn func(error), err error) {
	if err != nil && fn != nil {
		fn(err)
	}
}

// IsValidRegister reports whether key names a register actions may target.
func IsValidRegister(key rune) bool {
	return key == DefaultRegister || key == ClipboardRegister || (key >= 'a' && key <= 'z')
}

// Set stores value under key and returns the previous value, if any.
func (r *Register) Set(key rune, value string) (string, bool) {
	r.mu.Lock()
	prev, ok := r.slots[key]
	r.slots[key] = value
	var err error
	if key == ClipboardRegister && r.clipboard != nil {
		// The local slot still holds the value if the clipboard is unavailable.
		err = r.clipboard.WriteAll(value)
	}
	onErr := r.onClipErr
	r.mu.Unlock()

	reportClipboard(onErr, err)
	return prev, ok
}

// Get returns the value stored under key, or "" when nothing is stored.
func (r *Register) Get(key rune) string {
	r.mu.RLock()
	local := r.slots[key]
	clip, onErr := r.clipboard, r.onClipErr
	r.mu.RUnlock()

	if key != ClipboardRegister || clip == nil {
		return local
	}
	text, err := clip.ReadAll()
	if err != nil {
		reportClipboard(onErr, err)
		return local
	}
	return text
}

// Keys returns the populated register keys in ascending order.
func (r *Register) Keys() []rune {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.slots))
}

// Snapshot copies every register except the clipboard one.
func (r *Register) Snapshot() map[rune]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[rune]string, len(r.slots))
	for k, v := range r.slots {
		if k == ClipboardRegister {
			continue
		}
		out[k] = v
	}
	return out
}

// Restore merges values into the register. Invalid keys and the
// clipboard register are ignored.
func (r *Register) Restore(values map[rune]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, v := range values {
		if !IsValidRegister(k) || k == ClipboardRegister {
			continue
		}
		r.slots[k] = v
	}
}
