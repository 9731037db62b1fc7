package feedback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bitsplusatoms/multibutton/internal/led"
)

type opKind int

const (
	opPlay opKind = iota
	opStartLoop
	opStopLoop
	opSolid
)

type request struct {
	op      opKind
	pattern Pattern
}

// requestQueueSize bounds how many submissions can wait for the worker.
// Bursts beyond it drop the oldest queued request: the newest wins.
const requestQueueSize = 8

// Scheduler plays patterns on the LED from a single worker goroutine.
// Submissions never block the caller, and every delay inside a running
// pattern watches for the next request, so preemption takes effect
// within about one blink interval.
type Scheduler struct {
	driver    led.Driver
	requests  chan request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewScheduler starts the worker goroutine for the given driver.
func NewScheduler(driver led.Driver) *Scheduler {
	s := &Scheduler{
		driver:   driver,
		requests: make(chan request, requestQueueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.worker()
	return s
}

// Play runs one pass of a finite pattern. It preempts whatever is
// showing; a running loop resumes when the pattern finishes.
func (s *Scheduler) Play(p Pattern) {
	s.submit(request{op: opPlay, pattern: p})
}

// StartLoop repeats the pattern until StopLoop, replacing any current
// loop. At most one loop runs at a time.
func (s *Scheduler) StartLoop(p Pattern) {
	s.submit(request{op: opStartLoop, pattern: p})
}

// StopLoop clears the loop and turns the LED off. Calling it with no
// loop running is a no-op that still leaves the LED off.
func (s *Scheduler) StopLoop() {
	s.submit(request{op: opStopLoop})
}

// Solid holds a steady color until something else is submitted.
func (s *Scheduler) Solid(c led.Color) {
	s.submit(request{op: opSolid, pattern: Pattern{Name: "solid", Color: c}})
}

// Close stops the worker and turns the LED off. Safe to call more than
// once.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
}

// submit queues a request without ever blocking the caller. When the
// queue is full the oldest entry is dropped to make room: the newest
// submission wins.
func (s *Scheduler) submit(r request) {
	for {
		select {
		case s.requests <- r:
			return
		default:
		}
		select {
		case <-s.requests:
		default:
		}
	}
}

func (s *Scheduler) worker() {
	defer close(s.done)

	var loop *Pattern
	var pending *request

	for {
		var req request
		switch {
		case pending != nil:
			req, pending = *pending, nil
		case loop != nil:
			// Queued requests take priority over replaying the loop.
			select {
			case req = <-s.requests:
			case <-s.quit:
				s.off()
				return
			default:
				// Replay one loop cycle, then its inter-cycle gap. A
				// new request interrupts either and is handled next
				// spin.
				var quit bool
				pending, quit = s.play(*loop)
				if quit {
					s.off()
					return
				}
				if pending == nil && loop.Gap > 0 {
					pending, quit = s.pause(loop.Gap)
					if quit {
						s.off()
						return
					}
				}
				continue
			}
		default:
			select {
			case req = <-s.requests:
			case <-s.quit:
				s.off()
				return
			}
		}

		switch req.op {
		case opPlay:
			var quit bool
			pending, quit = s.play(req.pattern)
			if quit {
				s.off()
				return
			}
		case opStartLoop:
			p := req.pattern
			loop = &p
		case opStopLoop:
			loop = nil
			s.off()
		case opSolid:
			if err := s.driver.Set(req.pattern.Color); err != nil {
				slog.Warn("led set failed", "color", req.pattern.Name, "err", err)
			}
		}
	}
}

// play runs one full pass of a pattern. It returns the request that
// preempted it, if any, and whether Close was requested.
func (s *Scheduler) play(p Pattern) (*request, bool) {
	bursts := p.Bursts
	if bursts < 1 {
		bursts = 1
	}

	for b := 0; b < bursts; b++ {
		if b > 0 && p.Gap > 0 {
			if preempt, quit := s.pause(p.Gap); preempt != nil || quit {
				return preempt, quit
			}
		}
		for i := 0; i < p.Blinks; i++ {
			if err := s.driver.Set(p.Color); err != nil {
				slog.Warn("led set failed", "pattern", p.Name, "err", err)
			}
			if preempt, quit := s.pause(p.Interval); preempt != nil || quit {
				return preempt, quit
			}
			s.off()
			if preempt, quit := s.pause(p.Interval); preempt != nil || quit {
				return preempt, quit
			}
		}
	}
	return nil, false
}

// pause sleeps for d unless a request or Close arrives first.
func (s *Scheduler) pause(d time.Duration) (*request, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-s.requests:
		return &r, false
	case <-s.quit:
		return nil, true
	case <-timer.C:
		return nil, false
	}
}

func (s *Scheduler) off() {
	if err := s.driver.Off(); err != nil {
		slog.Warn("led off failed", "err", err)
	}
}
