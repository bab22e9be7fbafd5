package results

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/vform/pkg/async"
	"github.com/dmitrymomot/vform/pkg/form"
	"github.com/dmitrymomot/vform/pkg/logger"
)

// Extractor picks the records out of a response. It reports false when the
// response holds no record list.
type Extractor func(form.ResponseState) ([]any, bool)

// FieldExtractor reads the list stored under key of a decoded object.
// An empty key uses the decoded body itself.
func FieldExtractor(key string) Extractor {
	return func(st form.ResponseState) ([]any, bool) {
		v := st.Raw
		if key != "" {
			if st.Data == nil {
				return nil, false
			}
			v = st.Data[key]
		}
		list, ok := v.([]any)
		return list, ok
	}
}

// Source is the part of a form controller a Buffer needs.
type Source interface {
	On(kind form.Kind, fn func(ctx context.Context, s form.Signal)) (remove func())
	Submit(ctx context.Context) (*async.Future[form.Outcome], error)
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithAccumulate appends records instead of replacing them.
func WithAccumulate() Option {
	return func(b *Buffer) { b.accumulate = true }
}

func WithExtractor(e Extractor) Option {
	return func(b *Buffer) {
		if e != nil {
			b.extract = e
		}
	}
}

// WithFetchOnAttach submits the form as soon as the buffer is attached.
func WithFetchOnAttach() Option {
	return func(b *Buffer) { b.fetch = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Buffer) {
		if l != nil {
			b.logger = l
		}
	}
}

// Buffer holds response records. It is safe for concurrent use.
type Buffer struct {
	mu      sync.RWMutex
	records []any

	extract    Extractor
	accumulate bool
	fetch      bool
	logger     *slog.Logger
}

// New creates an empty buffer reading the decoded body as the record list.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		extract: FieldExtractor(""),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(logger.Component("results"))
	return b
}

// Update applies a response and reports whether the buffer changed.
func (b *Buffer) Update(st form.ResponseState) bool {
	if st.HasMessage() {
		return false
	}
	list, ok := b.extract(st)
	if !ok {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.accumulate {
		b.records = slices.Clone(list)
		return true
	}
	for _, r := range list {
		if r != nil {
			b.records = append(b.records, r)
		}
	}
	return true
}

// Attach subscribes the buffer to successful submissions of src.
func (b *Buffer) Attach(ctx context.Context, src Source) (detach func(), err error) {
	detach = src.On(form.KindSuccess, func(ctx context.Context, s form.Signal) {
		if s.Response == nil {
			return
		}
		if b.Update(*s.Response) {
			b.logger.DebugContext(ctx, "results updated", slog.Int("records", b.Len()))
		}
	})

	if b.fetch {
		if _, err := src.Submit(ctx); err != nil {
			detach()
			return func() {}, err
		}
	}
	return detach, nil
}

// Records returns a copy of the buffered records.
func (b *Buffer) Records() []any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.records)
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

func (b *Buffer) HasRecords() bool { return b.Len() > 0 }

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
}
