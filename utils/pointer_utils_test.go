package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonEmpty(t *testing.T) {
	assert.Nil(t, NonEmpty(""))
	if p := NonEmpty("user-1"); assert.NotNil(t, p) {
		assert.Equal(t, "user-1", *p)
	}
}

func TestPtrAndDeref(t *testing.T) {
	p := Ptr(25.5)
	assert.Equal(t, 25.5, Deref(p))
	assert.Equal(t, 0, Deref[int](nil))
	assert.Equal(t, "", Deref[string](nil))
}
