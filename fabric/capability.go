package fabric

import (
	"github.com/teranos/fabric/errors"
)

// Capabilities maps a capability name to the value a plugin injected
type Capabilities map[string]any

// Capability returns the capability called name as a T
func Capability[T any](f *Fabric, name string) (T, error) {
	var zero T

	f.mu.Lock()
	v, ok := f.caps[name]
	f.mu.Unlock()

	if !ok {
		err := errors.Wrapf(errors.ErrCapabilityNotFound, "capability %q", name)
		return zero, errors.WithHint(err, "install the plugin that injects it with Use")
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.Newf("capability %q is %T, not %T", name, v, zero)
	}
	return t, nil
}

// MustCapability is Capability for setup code that cannot continue without it
func MustCapability[T any](f *Fabric, name string) T {
	v, err := Capability[T](f, name)
	if err != nil {
		panic(err)
	}
	return v
}
