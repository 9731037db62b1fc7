package button

import (
	"time"

	"github.com/bitsplusatoms/multibutton/internal/gesture"
)

// Recognizer classifies the press pattern on one button. Edge records
// press and release transitions; Tick is the sole emission point and
// returns at most one gesture per call. Not safe for concurrent use:
// the caller serializes Edge and Tick per unit.
type Recognizer struct {
	longPress time.Duration
	gap       time.Duration

	pressed    bool
	pressedAt  time.Time
	releasedAt time.Time
	longFired  bool
	presses    int
}

// NewRecognizer creates a recognizer with the given hold duration and
// inter-press gap.
func NewRecognizer(longPress, gap time.Duration) *Recognizer {
	return &Recognizer{
		longPress: longPress,
		gap:       gap,
	}
}

// Edge records a press or release transition at the given time.
// Repeated edges in the same direction are ignored.
func (r *Recognizer) Edge(pressed bool, at time.Time) {
	if pressed == r.pressed {
		return
	}
	r.pressed = pressed

	if pressed {
		r.pressedAt = at
		return
	}

	r.releasedAt = at
	if r.longFired {
		// The hold already classified as a long press; its release
		// does not count toward a burst.
		r.longFired = false
		return
	}
	r.presses++
}

// Tick classifies against the current time. A long press fires the
// moment the hold reaches the threshold, while the button is still
// held; press bursts classify once the inter-press gap expires after
// the last release.
func (r *Recognizer) Tick(now time.Time) (gesture.Kind, bool) {
	if r.pressed {
		if !r.longFired && now.Sub(r.pressedAt) >= r.longPress {
			// Presses leading into a long hold are discarded: the
			// hold wins.
			r.longFired = true
			r.presses = 0
			return gesture.Long, true
		}
		return "", false
	}

	if r.presses == 0 {
		return "", false
	}
	if now.Sub(r.releasedAt) < r.gap {
		return "", false
	}

	n := r.presses
	r.presses = 0

	switch n {
	case 1:
		return gesture.Single, true
	case 2:
		return gesture.Double, true
	case 3:
		return gesture.Triple, true
	default:
		// More presses than the gesture vocabulary names.
		return gesture.Unknown, true
	}
}
