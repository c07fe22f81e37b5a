package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
	assert.Equal(t, "dummy: cause2: cause1", e.Error())
}

func TestSentinelNotMutated(t *testing.T) {
	sentinel := New("not found")
	cause := fmt.Errorf("disk on fire")

	wrapped := sentinel.Wrap(cause)
	require.Nil(t, sentinel.Unwrap())
	assert.Equal(t, "not found", sentinel.Error())

	assert.True(t, Is(wrapped, sentinel))
	assert.True(t, Is(wrapped, cause))
	assert.False(t, Is(sentinel, cause))
}

func TestDetail(t *testing.T) {
	sentinel := New("unknown catalog")
	detailed := sentinel.Detail("no entry for %q", "glottolog")

	assert.Equal(t, `unknown catalog: no entry for "glottolog"`, detailed.Error())
	assert.True(t, Is(detailed, sentinel))
	assert.False(t, Is(detailed, New("unknown catalog")))

	// detailing a wrapped error keeps both the sentinel and the cause
	cause := New("cause")
	chained := sentinel.Wrap(cause).Detail("key %s", "k")
	assert.True(t, Is(chained, sentinel))
	assert.True(t, Is(chained, cause))

	var target *Error
	require.True(t, As(fmt.Errorf("context: %w", chained), &target))
	assert.Equal(t, chained, target)
}
