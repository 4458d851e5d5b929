package treeview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	assert.Nil(t, Batch())
	assert.Nil(t, Batch(nil, BatchCommand{nil}))
	assert.Equal(t, RedrawCommand{}, Batch(nil, RedrawCommand{}))
	assert.Equal(t,
		BatchCommand{RedrawCommand{}, QuitCommand{}, RedrawCommand{}},
		Batch(RedrawCommand{}, BatchCommand{QuitCommand{}, BatchCommand{nil, RedrawCommand{}}}),
	)
}
