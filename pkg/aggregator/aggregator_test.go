package aggregator_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vform/pkg/aggregator"
)

func TestTemplates_Render(t *testing.T) {
	tpl := aggregator.DefaultTemplates()

	t.Run("substitutes both placeholders", func(t *testing.T) {
		tpl := aggregator.Templates{"between": "Value must be between %1% to %2% characters."}
		assert.Equal(t, "Value must be between 3 to 5 characters.", tpl.Render("between", []string{"3", "5"}))
	})

	t.Run("leaves placeholders without arguments", func(t *testing.T) {
		assert.Equal(t, "Value must have at least %1% character(s).", tpl.Render("min", nil))
	})

	t.Run("replaces only the first occurrence", func(t *testing.T) {
		tpl := aggregator.Templates{"x": "%1% and %1%"}
		assert.Equal(t, "a and %1%", tpl.Render("x", []string{"a"}))
	})

	t.Run("falls back to rule name", func(t *testing.T) {
		assert.Equal(t, "custom_rule", tpl.Render("custom_rule", []string{"1"}))
	})

	t.Run("covers every builtin rule", func(t *testing.T) {
		for _, rule := range []string{"required", "number", "email", "url", "min", "min_number", "max",
			"max_number", "between", "between_number", "equals", "required_if"} {
			assert.NotEqual(t, rule, tpl.Render(rule, []string{"1", "2"}), rule)
		}
	})

	t.Run("with overlays overrides", func(t *testing.T) {
		merged := tpl.With(aggregator.Templates{"required": "Please fill in."})
		assert.Equal(t, "Please fill in.", merged.Render("required", nil))
		assert.Equal(t, "Email value is invalid.", merged.Render("email", nil))
		assert.Equal(t, "Required field.", tpl.Render("required", nil), "original untouched")
	})
}

func TestLoadTemplates(t *testing.T) {
	t.Run("decodes yaml catalog", func(t *testing.T) {
		tpl, err := aggregator.LoadTemplates(strings.NewReader("required: \"Obligatoire.\"\nmin: \"Au moins %1% caractères.\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "Au moins 4 caractères.", tpl.Render("min", []string{"4"}))
		assert.Equal(t, "Obligatoire.", tpl.Render("required", nil))
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := aggregator.LoadTemplates(strings.NewReader("- a\n- b\n"))
		assert.ErrorIs(t, err, aggregator.ErrParseTemplates)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := aggregator.LoadTemplates(strings.NewReader(""))
		assert.ErrorIs(t, err, aggregator.ErrEmptyTemplates)
	})
}

func TestAggregator(t *testing.T) {
	t.Run("appends in insertion order", func(t *testing.T) {
		agg := aggregator.New(nil)
		agg.Add("name", "required", nil)
		agg.Add("name", "between", []string{"3", "5"})

		assert.Equal(t, aggregator.ErrorMap{
			"name": {"Required field.", "Value must have between 3 to 5 characters."},
		}, agg.Errors())
		assert.False(t, agg.Valid())
	})

	t.Run("reset twice yields empty map both times", func(t *testing.T) {
		agg := aggregator.New(nil)
		agg.Add("email", "email", nil)

		agg.Reset()
		assert.Empty(t, agg.Errors())
		agg.Reset()
		assert.Empty(t, agg.Errors())
		assert.True(t, agg.Valid())
	})

	t.Run("errors returns a copy", func(t *testing.T) {
		agg := aggregator.New(nil)
		agg.Add("email", "email", nil)

		errs := agg.Errors()
		errs["email"][0] = "mutated"
		errs.Add("other", "x")

		assert.Equal(t, []string{"Email value is invalid."}, agg.Field("email"))
		assert.Empty(t, agg.Field("other"))
	})

	t.Run("set templates affects later messages", func(t *testing.T) {
		a := aggregator.New(nil)
		a.Add("name", "required", nil)
		a.SetTemplates(aggregator.Templates{"required": "Fill me."})
		a.Add("name", "required", nil)
		assert.Equal(t, []string{"Required field.", "Fill me."}, a.Field("name"))

		a.SetTemplates(nil)
		assert.Equal(t, aggregator.DefaultTemplates(), a.Templates())
	})

	t.Run("missing template renders rule name", func(t *testing.T) {
		agg := aggregator.New(aggregator.Templates{})
		agg.Add("age", "min_number", []string{"18"})
		assert.Equal(t, []string{"min_number"}, agg.Field("age"))
	})

	t.Run("merge strips markup and blank messages", func(t *testing.T) {
		agg := aggregator.New(nil)
		agg.Add("email", "required", nil)
		agg.Merge(aggregator.ErrorMap{
			"email": {"<b>Already taken</b>", "<script>alert(1)</script>", "  "},
			"terms": {"Must be > 18 & accepted"},
		})

		assert.Equal(t, []string{"Required field.", "Already taken"}, agg.Field("email"))
		assert.Equal(t, []string{"Must be > 18 & accepted"}, agg.Field("terms"))
	})

	t.Run("merge strips entity-encoded markup", func(t *testing.T) {
		agg := aggregator.New(nil)
		agg.Merge(aggregator.ErrorMap{
			"email": {
				"&lt;script&gt;alert(1)&lt;/script&gt;",
				"&amp;lt;b&amp;gt;Taken&amp;lt;/b&amp;gt;",
				"&lt;i&gt;Invalid&lt;/i&gt; address",
			},
		})

		got := agg.Field("email")
		assert.Equal(t, []string{"Taken", "Invalid address"}, got)
		for _, msg := range got {
			assert.NotContains(t, msg, "<")
		}
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		agg := aggregator.New(nil)
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				agg.Add("f", "required", nil)
				_ = agg.Errors()
			}()
		}
		wg.Wait()
		assert.Len(t, agg.Field("f"), 20)
	})
}

func TestErrorMap(t *testing.T) {
	t.Run("error message lists first message per field sorted", func(t *testing.T) {
		m := aggregator.ErrorMap{"zip": {"bad zip"}, "age": {"too young", "not a number"}}
		assert.Equal(t, "validation failed: age: too young; zip: bad zip", m.Error())
	})

	t.Run("empty map", func(t *testing.T) {
		var m aggregator.ErrorMap
		assert.True(t, m.IsEmpty())
		assert.Equal(t, "validation failed", m.Error())
		assert.Nil(t, m.Clone())
		assert.Equal(t, "", m.Get("x"))
	})

	t.Run("fields ignore empty lists", func(t *testing.T) {
		m := aggregator.ErrorMap{"a": nil, "b": {"x"}}
		assert.Equal(t, []string{"b"}, m.Fields())
		assert.False(t, m.Has("a"))
		assert.True(t, m.Has("b"))
		assert.False(t, m.IsEmpty())
	})
}
