// Package event implements the lifecycle event pipeline.
//
// Listeners run either one after another in registration order (Sequential)
// or all at once (Parallel). Every listener runs on each Emit; failures are
// collected and returned to the caller, never logged and dropped.
package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/logger"
)

// Mode selects how an Emitter schedules listeners
type Mode string

const (
	Sequential Mode = "sequential"
	Parallel   Mode = "parallel"
)

// ParseMode converts a configuration string into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Sequential:
		return Sequential, nil
	case Parallel:
		return Parallel, nil
	default:
		return "", errors.Newf("unknown event mode %q (expected sequential or parallel)", s)
	}
}

// Listener handles one emitted payload
type Listener func(ctx context.Context, payload any) error

// ListenerID identifies a registration for Off
type ListenerID uint64

type registration struct {
	id    ListenerID
	fn    Listener
	once  bool
	fired atomic.Bool
}

// Emitter dispatches named events to registered listeners
type Emitter struct {
	mu        sync.RWMutex
	mode      Mode
	nextID    ListenerID
	listeners map[string][]*registration
	logger    *zap.SugaredLogger
}

// Option configures an Emitter
type Option func(*Emitter)

// WithMode sets the scheduling mode
func WithMode(mode Mode) Option {
	return func(e *Emitter) {
		e.mode = mode
	}
}

// WithLogger sets the emitter's logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEmitter creates an emitter, Sequential unless configured otherwise
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		mode:      Sequential,
		listeners: make(map[string][]*registration),
		logger:    logger.ComponentLogger("event"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the scheduling mode
func (e *Emitter) Mode() Mode {
	return e.mode
}

// On registers fn for event
func (e *Emitter) On(event string, fn Listener) ListenerID {
	return e.add(event, fn, false)
}

// Once registers fn for the next emission of event only
func (e *Emitter) Once(event string, fn Listener) ListenerID {
	return e.add(event, fn, true)
}

func (e *Emitter) add(event string, fn Listener, once bool) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	reg := &registration{id: e.nextID, fn: fn, once: once}
	e.listeners[event] = append(e.listeners[event], reg)
	return reg.id
}

// Off removes a listener. It reports whether the listener was registered.
func (e *Emitter) Off(event string, id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.remove(event, id)
}

// remove requires e.mu held for writing
func (e *Emitter) remove(event string, id ListenerID) bool {
	regs := e.listeners[event]
	for i, reg := range regs {
		if reg.id != id {
			continue
		}
		next := make([]*registration, 0, len(regs)-1)
		next = append(next, regs[:i]...)
		next = append(next, regs[i+1:]...)
		if len(next) == 0 {
			delete(e.listeners, event)
		} else {
			e.listeners[event] = next
		}
		return true
	}
	return false
}

// RemoveAll removes the listeners of the named events, or of every event when none are named
func (e *Emitter) RemoveAll(events ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(events) == 0 {
		e.listeners = make(map[string][]*registration)
		return
	}
	for _, event := range events {
		delete(e.listeners, event)
	}
}

// ListenerCount returns the number of listeners registered for event
func (e *Emitter) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.listeners[event])
}

// Emit delivers payload to every listener of event and waits for them.
// It returns nil when all succeed, the error itself when exactly one fails,
// and an *AggregateError when several fail.
func (e *Emitter) Emit(ctx context.Context, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "emit %s", event)
	}

	regs := e.claim(event)
	if len(regs) == 0 {
		return nil
	}

	e.logger.Debugw("Emitting event",
		logger.FieldEvent, event,
		logger.FieldCount, len(regs),
		logger.FieldMode, string(e.mode),
	)

	errs := make([]error, len(regs))
	if e.mode == Parallel {
		var wg sync.WaitGroup
		for i, reg := range regs {
			wg.Add(1)
			go func(i int, reg *registration) {
				defer wg.Done()
				errs[i] = invoke(ctx, event, reg.fn, payload)
			}(i, reg)
		}
		wg.Wait()
	} else {
		for i, reg := range regs {
			errs[i] = invoke(ctx, event, reg.fn, payload)
		}
	}

	failed := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}

	switch len(failed) {
	case 0:
		return nil
	case 1:
		return failed[0]
	default:
		return &AggregateError{Event: event, Errors: failed}
	}
}

// claim snapshots the listeners for event. Once listeners are unregistered
// here, before they run, and only by the emission that wins the CAS.
func (e *Emitter) claim(event string) []*registration {
	e.mu.RLock()
	regs := append([]*registration{}, e.listeners[event]...)
	e.mu.RUnlock()

	out := regs[:0]
	for _, reg := range regs {
		if reg.once {
			if !reg.fired.CompareAndSwap(false, true) {
				continue
			}
			e.mu.Lock()
			e.remove(event, reg.id)
			e.mu.Unlock()
		}
		out = append(out, reg)
	}
	return out
}

func invoke(ctx context.Context, event string, fn Listener, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("listener for %s panicked: %v", event, r)
		}
	}()
	return fn(ctx, payload)
}

// AggregateError reports several listener failures for one emission
type AggregateError struct {
	Event  string
	Errors []error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("%d errors in async listeners for %s", len(e.Errors), e.Event)
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
