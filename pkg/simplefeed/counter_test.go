package simplefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	var c Counter
	assert.Equal(t, 0, c.Count())

	c.Increase()
	c.Increase()
	assert.Equal(t, 2, c.Count())

	c.Decrease()
	assert.Equal(t, 1, c.Count())
}

func TestCounter_DecreaseClampsAtZero(t *testing.T) {
	var c Counter
	c.Decrease()
	assert.Equal(t, 0, c.Count())

	c.Increase()
	c.Decrease()
	c.Decrease()
	assert.Equal(t, 0, c.Count())
}

func TestNewCounterFrom(t *testing.T) {
	c, err := NewCounterFrom(7)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Count())

	_, err = NewCounterFrom(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
