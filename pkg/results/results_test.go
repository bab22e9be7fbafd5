package results_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vform/pkg/form"
	"github.com/dmitrymomot/vform/pkg/lifecycle"
	"github.com/dmitrymomot/vform/pkg/results"
	"github.com/dmitrymomot/vform/pkg/transport"
)

func TestBuffer_Update(t *testing.T) {
	t.Run("replaces by default", func(t *testing.T) {
		b := results.New()
		assert.True(t, b.Update(form.ResponseState{Raw: []any{"a", "b"}}))
		assert.True(t, b.Update(form.ResponseState{Raw: []any{"c"}}))
		assert.Equal(t, []any{"c"}, b.Records())
		assert.True(t, b.HasRecords())
	})

	t.Run("accumulates without nils", func(t *testing.T) {
		b := results.New(results.WithAccumulate())
		b.Update(form.ResponseState{Raw: []any{"a", nil}})
		b.Update(form.ResponseState{Raw: []any{nil, "b"}})
		assert.Equal(t, []any{"a", "b"}, b.Records())
	})

	t.Run("skips responses with a message", func(t *testing.T) {
		b := results.New()
		b.Update(form.ResponseState{Raw: []any{"a"}})
		assert.False(t, b.Update(form.ResponseState{Raw: []any{"b"}, Message: "Nothing found"}))
		assert.Equal(t, []any{"a"}, b.Records())
	})

	t.Run("ignores non-list bodies", func(t *testing.T) {
		b := results.New()
		assert.False(t, b.Update(form.ResponseState{Raw: "text"}))
		assert.False(t, b.HasRecords())
	})

	t.Run("field extractor", func(t *testing.T) {
		b := results.New(results.WithExtractor(results.FieldExtractor("items")))
		assert.True(t, b.Update(form.ResponseState{Data: map[string]any{"items": []any{1.0}}}))
		assert.False(t, b.Update(form.ResponseState{Raw: []any{2.0}}))
		assert.Equal(t, []any{1.0}, b.Records())

		b.Reset()
		assert.Equal(t, 0, b.Len())
	})
}

func TestBuffer_Attach(t *testing.T) {
	calls := 0
	tr := transport.Func(func(ctx context.Context, opts transport.Options) (*transport.Response, error) {
		calls++
		return &transport.Response{
			Status: http.StatusOK,
			Body:   []byte(`{"items":[{"id":1},{"id":2}]}`),
		}, nil
	})

	ctl, err := form.New(form.Config{Action: "/search", Method: http.MethodGet}, tr)
	require.NoError(t, err)
	defer ctl.Close()

	b := results.New(
		results.WithExtractor(results.FieldExtractor("items")),
		results.WithFetchOnAttach(),
	)
	detach, err := b.Attach(context.Background(), ctl)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return b.Len() == 2 && ctl.State().Lifecycle == lifecycle.Idle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, map[string]any{"id": 1.0}, b.Records()[0])

	t.Run("detached buffers stop updating", func(t *testing.T) {
		detach()
		b.Reset()

		fut, err := ctl.Submit(context.Background())
		require.NoError(t, err)
		_, err = fut.AwaitWithTimeout(time.Second)
		require.NoError(t, err)
		assert.False(t, b.HasRecords())
		assert.Equal(t, 2, calls)
	})
}
