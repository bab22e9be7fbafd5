package validator

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecCache(t *testing.T) {
	t.Run("evicts least recently used", func(t *testing.T) {
		c := newSpecCache(2)
		c.put("a", Parse("required"))
		c.put("b", Parse("email"))

		_, ok := c.get("a")
		require.True(t, ok)

		c.put("c", Parse("url"))
		assert.Equal(t, 2, c.len())

		_, ok = c.get("b")
		assert.False(t, ok, "b was least recently used")
		_, ok = c.get("a")
		assert.True(t, ok)
		_, ok = c.get("c")
		assert.True(t, ok)
	})

	t.Run("put replaces existing entry", func(t *testing.T) {
		c := newSpecCache(4)
		c.put("a", Parse("required"))
		c.put("a", Parse("email"))

		rules, ok := c.get("a")
		require.True(t, ok)
		assert.Equal(t, "email", rules[0].Name)
		assert.Equal(t, 1, c.len())
	})

	t.Run("capacity stays bounded", func(t *testing.T) {
		c := newSpecCache(8)
		for i := range 100 {
			c.put("min:"+strconv.Itoa(i), nil)
		}
		assert.Equal(t, 8, c.len())
	})

	t.Run("non-positive capacity is clamped", func(t *testing.T) {
		c := newSpecCache(0)
		c.put("a", nil)
		c.put("b", nil)
		assert.Equal(t, 1, c.len())
	})
}
