package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/vform/pkg/validator"
)

func TestParse(t *testing.T) {
	t.Run("empty spec yields no rules", func(t *testing.T) {
		assert.Empty(t, validator.Parse(""))
		assert.Empty(t, validator.Parse("|"))
		assert.Empty(t, validator.Parse("  "))
	})

	t.Run("splits rules and arguments in order", func(t *testing.T) {
		got := validator.Parse("required|min:3")
		assert.Equal(t, []validator.Invocation{
			{Name: "required"},
			{Name: "min", Args: []string{"3"}},
		}, got)
	})

	t.Run("keeps every argument segment", func(t *testing.T) {
		got := validator.Parse("between:3:5")
		assert.Equal(t, []validator.Invocation{{Name: "between", Args: []string{"3", "5"}}}, got)
	})

	t.Run("skips empty tokens", func(t *testing.T) {
		got := validator.Parse("required||email|")
		assert.Equal(t, []validator.Invocation{{Name: "required"}, {Name: "email"}}, got)
	})

	t.Run("keeps unknown rule names", func(t *testing.T) {
		got := validator.Parse("whatever:1")
		assert.Equal(t, []validator.Invocation{{Name: "whatever", Args: []string{"1"}}}, got)
	})

	t.Run("keeps empty argument segments", func(t *testing.T) {
		got := validator.Parse("min:")
		assert.Equal(t, []validator.Invocation{{Name: "min", Args: []string{""}}}, got)
	})
}

func TestParseCached(t *testing.T) {
	t.Run("matches Parse", func(t *testing.T) {
		assert.Equal(t, validator.Parse("required|between:1:9"), validator.ParseCached("required|between:1:9"))
	})

	t.Run("returned slice is detached from the cache", func(t *testing.T) {
		first := validator.ParseCached("min:3|max:9")
		first[0].Args[0] = "100"
		first[1].Name = "changed"

		second := validator.ParseCached("min:3|max:9")
		assert.Equal(t, "3", second[0].Args[0])
		assert.Equal(t, "max", second[1].Name)
	})
}

func TestInvocation_String(t *testing.T) {
	assert.Equal(t, "required", validator.Invocation{Name: "required"}.String())
	assert.Equal(t, "between:3:5", validator.Invocation{Name: "between", Args: []string{"3", "5"}}.String())
}
