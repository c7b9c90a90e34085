// Package store holds the simulator's mutable state (mask, optics,
// view settings) and publishes it to subscribers. Bursts of setter
// calls are coalesced so subscribers see at most one notification per
// display tick, which caps pipeline recomputation at the display rate
// during slider drags.
package store

import (
	"fmt"
	"math"

	"lithosim/internal/models"
)

// Scheduler runs a callback once on the next display refresh. The host
// supplies it; tests drive it by hand.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Schedule implements Scheduler.
func (s SchedulerFunc) Schedule(fn func()) { s(fn) }

// State is the snapshot handed to subscribers. The mask reference is
// borrowed: it is replaced wholesale by SetMask and never mutated in
// place by the store.
type State struct {
	Mask   models.Mask
	Params models.PupilParams
	View   models.ViewParams
}

// Listener receives the full state once per tick in which anything
// changed.
type Listener func(State)

// Store is the observable parameter store. It is single-threaded:
// mutation and notification happen on the same goroutine as the
// scheduler's ticks.
type Store struct {
	scheduler Scheduler
	state     State
	listeners []Listener

	// pending is the single-slot mailbox: true while a notification is
	// scheduled but not yet delivered.
	pending bool
}

// New creates a store with default parameters and the given display
// scheduler.
func New(scheduler Scheduler) *Store {
	return &Store{
		scheduler: scheduler,
		state: State{
			Mask:   make(models.Mask, models.GridSize*models.GridSize),
			Params: models.DefaultPupilParams(),
			View:   models.DefaultViewParams(),
		},
	}
}

// GetState returns the current state snapshot.
func (s *Store) GetState() State {
	return s.state
}

// Subscribe registers a listener invoked with the whole state on every
// coalesced notification.
func (s *Store) Subscribe(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

// NotifyNow delivers the current state to all listeners synchronously,
// bypassing the tick coalescing. Used for the initial publication.
func (s *Store) NotifyNow() {
	for _, fn := range s.listeners {
		fn(s.state)
	}
}

// markDirty schedules one notification for the next tick. Further
// mutations before that tick fold into the same notification.
func (s *Store) markDirty() {
	if s.pending {
		return
	}
	s.pending = true
	s.scheduler.Schedule(s.flush)
}

// flush delivers the coalesced notification. The pending flag clears
// before the listeners run, so a listener that mutates state queues
// the next tick instead of re-entering this one.
func (s *Store) flush() {
	s.pending = false
	state := s.state
	for _, fn := range s.listeners {
		fn(state)
	}
}

// SetMask replaces the mask wholesale.
func (s *Store) SetMask(m models.Mask) {
	s.state.Mask = m
	s.markDirty()
}

// SetParam sets one optical parameter by key: "wavelength", "na",
// "sigma", or "defocus". Any finite value is accepted; range clamping
// belongs to the UI.
func (s *Store) SetParam(key string, value float64) error {
	if !isFinite(value) {
		return fmt.Errorf("parameter %q must be finite, got %g", key, value)
	}

	switch key {
	case "wavelength":
		s.state.Params.WavelengthNm = value
	case "na":
		s.state.Params.NA = value
	case "sigma":
		s.state.Params.Sigma = value
	case "defocus":
		s.state.Params.DefocusUm = value
	default:
		return fmt.Errorf("unknown optical parameter %q", key)
	}

	s.markDirty()
	return nil
}

// SetZernikeCoeff sets one aberration coefficient by Noll key
// "z4".."z11", in waves.
func (s *Store) SetZernikeCoeff(key string, value float64) error {
	if !isFinite(value) {
		return fmt.Errorf("coefficient %q must be finite, got %g", key, value)
	}

	z := &s.state.Params.Zernike
	switch key {
	case "z4":
		z.Z4 = value
	case "z5":
		z.Z5 = value
	case "z6":
		z.Z6 = value
	case "z7":
		z.Z7 = value
	case "z8":
		z.Z8 = value
	case "z9":
		z.Z9 = value
	case "z10":
		z.Z10 = value
	case "z11":
		z.Z11 = value
	default:
		return fmt.Errorf("unknown Zernike coefficient %q", key)
	}

	s.markDirty()
	return nil
}

// SetViewParam sets one view parameter by key: "threshold" or
// "crossSectionRow" (rounded to the nearest row).
func (s *Store) SetViewParam(key string, value float64) error {
	if !isFinite(value) {
		return fmt.Errorf("view parameter %q must be finite, got %g", key, value)
	}

	switch key {
	case "threshold":
		s.state.View.Threshold = value
	case "crossSectionRow":
		s.state.View.CrossSectionRow = int(math.Round(value))
	default:
		return fmt.Errorf("unknown view parameter %q", key)
	}

	s.markDirty()
	return nil
}

// ResetParams restores the optical and view defaults. The mask is left
// alone.
func (s *Store) ResetParams() {
	s.state.Params = models.DefaultPupilParams()
	s.state.View = models.DefaultViewParams()
	s.markDirty()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
