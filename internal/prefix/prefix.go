// Package prefix implements the per-side append-only log of pending
// transitions used by the subtype decision procedure: each side's "prefix"
// is what it has gotten ahead on relative to the other side. Entries can be
// marked removed out of order (during reduction's reorder search) while
// still supporting O(1)-amortised push and O(removed-since-snapshot) revert,
// via the two-cursor scheme of spec.md §3 (`start` plus a `removed` index
// stack), grounded on the reference implementation's Prefix type.
package prefix

import (
	"strings"

	"github.com/dantte-lp/gosubtype/internal/fsm"
)

// Index identifies one entry of a Buffer, returned by IterFull and
// consumed by Remove.
type Index int

type entry[R, N comparable] struct {
	removed    bool
	transition fsm.Transition[R, N]
}

// Snapshot captures a Buffer's shape at one point in time so it can later
// be reverted to, or checked for modification.
type Snapshot struct {
	size    int
	start   int
	removed int
}

// Buffer is one side's prefix of pending transitions.
type Buffer[R, N comparable] struct {
	entries []entry[R, N]
	start   int
	removed []int
}

// New returns an empty Buffer.
func New[R, N comparable]() *Buffer[R, N] {
	return &Buffer[R, N]{}
}

// IsEmpty reports whether the buffer has no live entries from the current
// head onward.
func (b *Buffer[R, N]) IsEmpty() bool {
	return b.start >= len(b.entries)
}

// First returns the live head entry, or ok=false if the buffer is empty.
func (b *Buffer[R, N]) First() (t fsm.Transition[R, N], ok bool) {
	if b.start >= len(b.entries) {
		return t, false
	}
	e := b.entries[b.start]
	if e.removed {
		panic("prefix: head entry is marked removed — remove_first invariant violated")
	}
	return e.transition, true
}

// Push appends a new live entry to the end of the buffer.
func (b *Buffer[R, N]) Push(t fsm.Transition[R, N]) {
	b.entries = append(b.entries, entry[R, N]{transition: t})
}

// RemoveFirst advances start past the current head and any contiguous
// already-removed entries that follow it.
func (b *Buffer[R, N]) RemoveFirst() {
	if b.start >= len(b.entries) || b.entries[b.start].removed {
		panic("prefix: RemoveFirst called with no live head entry")
	}
	b.start++
	for b.start < len(b.entries) && b.entries[b.start].removed {
		b.start++
	}
}

// Remove marks the i-th entry removed. If i is the current head index, this
// is equivalent to RemoveFirst.
func (b *Buffer[R, N]) Remove(i Index) {
	if int(i) == b.start {
		b.RemoveFirst()
		return
	}
	if b.entries[i].removed {
		panic("prefix: Remove called on an already-removed entry")
	}
	b.entries[i].removed = true
	b.removed = append(b.removed, int(i))
}

// Snapshot captures the buffer's current (size, start, removed-stack
// length) so it can be restored later.
func (b *Buffer[R, N]) Snapshot() Snapshot {
	return Snapshot{size: len(b.entries), start: b.start, removed: len(b.removed)}
}

func (b *Buffer[R, N]) validSnapshot(s Snapshot) bool {
	return s.removed <= len(b.removed) && s.size <= len(b.entries) && s.start <= b.start
}

// Revert restores the buffer to the state captured by s: any entries
// pushed after s are discarded, and any removals recorded after s are
// undone. This is O(|removals since s|), not O(buffer size).
func (b *Buffer[R, N]) Revert(s Snapshot) {
	if !b.validSnapshot(s) {
		panic("prefix: Revert called with a snapshot from a diverged buffer")
	}
	for _, i := range b.removed[s.removed:] {
		if !b.entries[i].removed {
			panic("prefix: revert found a removed-stack entry that was not marked removed")
		}
		b.entries[i].removed = false
	}
	b.removed = b.removed[:s.removed]
	b.entries = b.entries[:s.size]
	b.start = s.start
}

// IsModified reports whether the live suffix (from start onward) differs,
// by structural equality, from what it was at snapshot time.
func (b *Buffer[R, N]) IsModified(s Snapshot) bool {
	if !b.validSnapshot(s) {
		panic("prefix: IsModified called with a snapshot from a diverged buffer")
	}
	current := b.entries[b.start:]
	previous := b.entries[:s.size][s.start:]
	return !sameEntries(current, previous)
}

func sameEntries[R, N comparable](a, b []entry[R, N]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].removed != b[i].removed || !a[i].transition.Equal(b[i].transition) {
			return false
		}
	}
	return true
}

// Entry pairs an Index with its live transition, as returned by IterFull.
type Entry[R, N comparable] struct {
	Index      Index
	Transition fsm.Transition[R, N]
}

// IterFull returns every live entry from start onward, paired with its
// Index (suitable for later Remove calls).
func (b *Buffer[R, N]) IterFull() []Entry[R, N] {
	var out []Entry[R, N]
	for i := b.start; i < len(b.entries); i++ {
		if !b.entries[i].removed {
			out = append(out, Entry[R, N]{Index: Index(i), Transition: b.entries[i].transition})
		}
	}
	return out
}

// Iter returns every live transition from start onward, in order.
func (b *Buffer[R, N]) Iter() []fsm.Transition[R, N] {
	full := b.IterFull()
	out := make([]fsm.Transition[R, N], len(full))
	for i, e := range full {
		out[i] = e.Transition
	}
	return out
}

// String renders the buffer's live entries dot-separated, or "empty".
func (b *Buffer[R, N]) String() string {
	live := b.Iter()
	if len(live) == 0 {
		return "empty"
	}
	parts := make([]string, len(live))
	for i, t := range live {
		parts[i] = t.String()
	}
	return strings.Join(parts, " . ")
}
