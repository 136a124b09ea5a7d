package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type gate struct {
	data, bounds bool
	asked        []interface{}
}

func (g *gate) IsDataWritePermitted(obj interface{}) bool {
	g.asked = append(g.asked, obj)
	return g.data
}

func (g *gate) IsBoundsWritePermitted(obj interface{}) bool {
	g.asked = append(g.asked, obj)
	return g.bounds
}

func TestNodeNotLiveAlwaysWritable(t *testing.T) {
	var n Node
	assert.False(t, n.IsLive())
	assert.NoError(t, n.CheckDataWrite(&n))
	assert.NoError(t, n.CheckBoundsWrite(&n))
}

func TestNodeDefersToHandler(t *testing.T) {
	var n Node
	g := &gate{data: true}
	n.SetLive(g)
	assert.True(t, n.IsLive())

	assert.NoError(t, n.CheckDataWrite("owner"))
	assert.ErrorIs(t, n.CheckBoundsWrite("owner"), ErrInvalidWriteTiming)
	assert.Equal(t, []interface{}{"owner", "owner"}, g.asked)

	g.data, g.bounds = false, true
	assert.ErrorIs(t, n.CheckDataWrite("owner"), ErrInvalidWriteTiming)
	assert.NoError(t, n.CheckBoundsWrite("owner"))

	n.ClearLive()
	g.bounds = false
	assert.NoError(t, n.CheckBoundsWrite("owner"))
	assert.Len(t, g.asked, 4)
}
