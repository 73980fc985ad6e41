package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueGetSet(t *testing.T) {
	v := New(1)
	assert.Equal(t, 1, v.Get())

	v.Set(2)
	assert.Equal(t, 2, v.Get())
}

func TestValueSubscribe(t *testing.T) {
	v := New("")

	var first, second []string
	unsubscribe := v.Subscribe(func(s string) { first = append(first, s) })
	v.Subscribe(func(s string) { second = append(second, s) })

	v.Set("a")
	unsubscribe()
	unsubscribe()
	v.Set("b")

	assert.Equal(t, []string{"a"}, first)
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestValueSubscriberMaySet(t *testing.T) {
	v := New(0)
	v.Subscribe(func(n int) {
		if n < 3 {
			v.Set(n + 1)
		}
	})

	v.Set(1)
	assert.Equal(t, 3, v.Get())
}
