// Package player models the watch screen's playback focus rules as an
// explicit state machine: a single focused index owns playback, so "at
// most one item playing" is an invariant instead of a convention.
package player

// State is the playback state of one feed item.
type State int

const (
	NotLoaded State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "not-loaded"
	}
}

// Focus tracks which item is focused and what each touched item is
// doing. All methods are called from a single UI goroutine; Focus does
// no locking of its own.
type Focus struct {
	states        map[int]State
	bookmarks     map[int]bool
	focused       int
	hasFocused    bool
	screenFocused bool
}

func New() *Focus {
	return &Focus{
		states:        make(map[int]State),
		bookmarks:     make(map[int]bool),
		screenFocused: true,
	}
}

// SetVisible is the viewability callback: the item at index is now the
// most visible one. The previously focused item pauses before the new
// one starts, so two items are never playing at once.
func (f *Focus) SetVisible(index int) {
	if f.hasFocused && f.focused == index {
		return
	}

	if f.hasFocused {
		f.pause(f.focused)
	}

	f.focused = index
	f.hasFocused = true

	if f.screenFocused {
		f.states[index] = Playing
	} else {
		f.states[index] = Paused
	}
}

// Tap toggles play/pause for the focused item. Taps on non-focused
// items are ignored: only focus grants playback authority.
func (f *Focus) Tap(index int) {
	if !f.hasFocused || f.focused != index || !f.screenFocused {
		return
	}

	if f.states[index] == Playing {
		f.states[index] = Paused
	} else {
		f.states[index] = Playing
	}
}

// SetScreenFocused reflects top-level screen focus. Losing it pauses
// the focused item; regaining it resumes playback.
func (f *Focus) SetScreenFocused(focused bool) {
	if f.screenFocused == focused {
		return
	}
	f.screenFocused = focused

	if !f.hasFocused {
		return
	}

	if focused {
		f.states[f.focused] = Playing
	} else {
		f.pause(f.focused)
	}
}

// Release clears the slot for an unmounted item so handles don't leak
// across re-renders. Releasing the focused item drops focus.
func (f *Focus) Release(index int) {
	delete(f.states, index)
	if f.hasFocused && f.focused == index {
		f.hasFocused = false
	}
}

// ToggleBookmark flips an item's bookmark and reports the new value.
// Bookmarks are independent of focus and playback, and survive Release
// so a re-mounted item keeps its mark.
func (f *Focus) ToggleBookmark(index int) bool {
	f.bookmarks[index] = !f.bookmarks[index]
	return f.bookmarks[index]
}

// Bookmarked reports whether an item is bookmarked.
func (f *Focus) Bookmarked(index int) bool {
	return f.bookmarks[index]
}

// StateOf reports the playback state of an item.
func (f *Focus) StateOf(index int) State {
	return f.states[index]
}

// Focused returns the focused index, or false when nothing is focused.
func (f *Focus) Focused() (int, bool) {
	return f.focused, f.hasFocused
}

// PlayingCount reports how many items are currently playing. It is at
// most 1 under every input sequence.
func (f *Focus) PlayingCount() int {
	count := 0
	for _, s := range f.states {
		if s == Playing {
			count++
		}
	}
	return count
}

func (f *Focus) pause(index int) {
	if f.states[index] == Playing {
		f.states[index] = Paused
	}
}
