package event

import (
	"context"

	"github.com/teranos/fabric/errors"
)

// Key names an event and fixes its payload type
type Key[T any] string

// String returns the event name
func (k Key[T]) String() string {
	return string(k)
}

// On registers a typed listener for key
func On[T any](e *Emitter, key Key[T], fn func(ctx context.Context, payload T) error) ListenerID {
	return e.On(string(key), typed(key, fn))
}

// Once registers a typed listener for the next emission of key
func Once[T any](e *Emitter, key Key[T], fn func(ctx context.Context, payload T) error) ListenerID {
	return e.Once(string(key), typed(key, fn))
}

// Emit delivers a typed payload for key
func Emit[T any](ctx context.Context, e *Emitter, key Key[T], payload T) error {
	return e.Emit(ctx, string(key), payload)
}

func typed[T any](key Key[T], fn func(context.Context, T) error) Listener {
	return func(ctx context.Context, payload any) error {
		v, ok := payload.(T)
		if !ok {
			return errors.Newf("event %s: unexpected payload type %T", key, payload)
		}
		return fn(ctx, v)
	}
}
