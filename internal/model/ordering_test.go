package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	assert.Equal(t, 1, NextID([]Group{}))
	assert.Equal(t, 8, NextID([]Group{{ID: 3}, {ID: 7}, {ID: 1}}))
	assert.Equal(t, 2, NextID([]Template{{ID: 1}}))
}

func TestNextOrder(t *testing.T) {
	assert.Equal(t, 0, NextOrder([]Group{}))
	assert.Equal(t, 5, NextOrder([]Group{{Order: 2}, {Order: 4}, {Order: 0}}))
}

func TestReindexToSequence(t *testing.T) {
	t.Run("orders follow the id sequence", func(t *testing.T) {
		groups := []Group{{ID: 1, Order: 0}, {ID: 2, Order: 1}, {ID: 3, Order: 2}}
		out := ReindexToSequence(groups, []int{3, 1, 2})

		assert.Equal(t, []Group{{ID: 1, Order: 1}, {ID: 2, Order: 2}, {ID: 3, Order: 0}}, out)
		// input untouched
		assert.Equal(t, 0, groups[0].Order)
	})

	t.Run("absent ids keep their order", func(t *testing.T) {
		groups := []Group{{ID: 1, Order: 5}, {ID: 2, Order: 1}}
		out := ReindexToSequence(groups, []int{2})
		assert.Equal(t, 5, out[0].Order)
		assert.Equal(t, 0, out[1].Order)
	})

	t.Run("template group pointers are not shared", func(t *testing.T) {
		templates := []Template{{ID: 1, GroupID: GroupRef(4)}}
		out := ReindexToSequence(templates, []int{1})
		*out[0].GroupID = 9
		assert.Equal(t, 4, *templates[0].GroupID)
	})
}

func TestCompact(t *testing.T) {
	groups := []Group{{ID: 1, Order: 7}, {ID: 2, Order: 3}, {ID: 3, Order: 3}}
	out := Compact(groups, nil)
	assert.Equal(t, 2, out[0].Order)
	assert.Equal(t, 0, out[1].Order)
	assert.Equal(t, 1, out[2].Order)
	assert.True(t, IsDense(out, nil))
	assert.False(t, IsDense(groups, nil))
}

func TestIsDense(t *testing.T) {
	assert.True(t, IsDense([]Group{}, nil))
	assert.True(t, IsDense([]Group{{Order: 1}, {Order: 0}}, nil))
	assert.False(t, IsDense([]Group{{Order: 0}, {Order: 0}}, nil))
	assert.False(t, IsDense([]Group{{Order: 0}, {Order: 2}}, nil))
}
