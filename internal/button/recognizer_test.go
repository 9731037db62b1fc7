package button

import (
	"testing"
	"time"

	"github.com/bitsplusatoms/multibutton/internal/gesture"
)

const (
	testLongPress = 4000 * time.Millisecond
	testGap       = 400 * time.Millisecond
)

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// at converts milliseconds since test start into an absolute time.
func at(ms int) time.Time {
	return testStart.Add(time.Duration(ms) * time.Millisecond)
}

// expectNone asserts that Tick classifies nothing at the given time.
func expectNone(t *testing.T, r *Recognizer, ms int) {
	t.Helper()
	if kind, ok := r.Tick(at(ms)); ok {
		t.Fatalf("t=%dms: expected no gesture, got %s", ms, kind)
	}
}

// expectKind asserts that Tick classifies the given gesture at the
// given time.
func expectKind(t *testing.T, r *Recognizer, ms int, want gesture.Kind) {
	t.Helper()
	kind, ok := r.Tick(at(ms))
	if !ok {
		t.Fatalf("t=%dms: expected %s, got nothing", ms, want)
	}
	if kind != want {
		t.Fatalf("t=%dms: expected %s, got %s", ms, want, kind)
	}
}

func TestSinglePress(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	r.Edge(true, at(0))
	r.Edge(false, at(100))

	// Gap has not expired yet
	expectNone(t, r, 400)
	expectNone(t, r, 499)

	// Gap expires exactly at release + gap (inclusive)
	expectKind(t, r, 500, gesture.Single)

	// Nothing left to classify
	expectNone(t, r, 600)
}

func TestDoublePress(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	r.Edge(true, at(0))
	r.Edge(false, at(80))
	r.Edge(true, at(200))
	r.Edge(false, at(280))

	expectNone(t, r, 500)
	expectKind(t, r, 680, gesture.Double)
}

func TestTriplePress(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	r.Edge(true, at(0))
	r.Edge(false, at(80))
	r.Edge(true, at(200))
	r.Edge(false, at(280))
	r.Edge(true, at(400))
	r.Edge(false, at(480))

	expectKind(t, r, 880, gesture.Triple)
}

func TestQuadruplePressIsUnknown(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	for i := 0; i < 4; i++ {
		base := i * 200
		r.Edge(true, at(base))
		r.Edge(false, at(base+80))
	}

	// Four presses exceed the vocabulary
	expectKind(t, r, 680+400, gesture.Unknown)
}

func TestSecondPressWithinGapExtendsBurst(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	r.Edge(true, at(0))
	r.Edge(false, at(100))

	// The second press lands just inside the gap window
	expectNone(t, r, 450)
	r.Edge(true, at(450))
	r.Edge(false, at(550))

	expectKind(t, r, 950, gesture.Double)
}

func TestLongPressFiresWhileHeld(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	r.Edge(true, at(0))

	// Still short of the hold threshold
	expectNone(t, r, 3999)

	// Fires exactly at the threshold, with the button still held
	expectKind(t, r, 4000, gesture.Long)

	// A continued hold does not fire again
	expectNone(t, r, 5000)
	expectNone(t, r, 10000)

	// The release is swallowed: no single press follows
	r.Edge(false, at(12000))
	expectNone(t, r, 12400)
	expectNone(t, r, 13000)
}

func TestPressBurstSwallowedByLongHold(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	// Two quick presses, then the third becomes a long hold
	r.Edge(true, at(0))
	r.Edge(false, at(80))
	r.Edge(true, at(200))
	r.Edge(false, at(280))
	r.Edge(true, at(390))

	// The hold crosses the threshold: long wins, the burst is gone
	expectKind(t, r, 390+4000, gesture.Long)

	r.Edge(false, at(5000))
	expectNone(t, r, 5400)
}

func TestRepeatedEdgesIgnored(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	r.Edge(true, at(0))
	r.Edge(true, at(10)) // duplicate press edge
	r.Edge(false, at(100))
	r.Edge(false, at(110)) // duplicate release edge

	expectKind(t, r, 500, gesture.Single)
}

func TestGesturesClassifyIndependently(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	r.Edge(true, at(0))
	r.Edge(false, at(100))
	expectKind(t, r, 500, gesture.Single)

	// A later burst starts from a clean slate
	r.Edge(true, at(1000))
	r.Edge(false, at(1080))
	r.Edge(true, at(1200))
	r.Edge(false, at(1280))
	expectKind(t, r, 1680, gesture.Double)

	// And a long press after that
	r.Edge(true, at(3000))
	expectKind(t, r, 7000, gesture.Long)
	r.Edge(false, at(7500))
	expectNone(t, r, 8000)
}

func TestHeldButtonDoesNotClassifyPendingBurst(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	// One complete press, then a second press held across the gap
	// window: the burst stays open while the button is down
	r.Edge(true, at(0))
	r.Edge(false, at(100))
	r.Edge(true, at(300))

	expectNone(t, r, 600)
	expectNone(t, r, 1000)

	r.Edge(false, at(1200))
	expectKind(t, r, 1600, gesture.Double)
}

func TestTickBeforeAnyEdges(t *testing.T) {
	r := NewRecognizer(testLongPress, testGap)

	expectNone(t, r, 0)
	expectNone(t, r, 10000)
}
