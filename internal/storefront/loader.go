package storefront

import (
	"context"
	"errors"
	"sync"
)

// ErrTornDown is returned by Load once the owning page has been torn down
var ErrTornDown = errors.New("page torn down")

// Token is a cooperative cancellation handle for one in-flight fetch.
// The fetch receives Context(); whoever applies the result checks
// Cancelled() first and drops the result when it reports true.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newToken(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

// Context is passed to the fetch so transports can abort early
func (t *Token) Context() context.Context {
	return t.ctx
}

// Cancel marks the token stale
func (t *Token) Cancel() {
	t.cancel()
}

// Cancelled reports whether the result of the fetch must be discarded
func (t *Token) Cancelled() bool {
	return t.ctx.Err() != nil
}

// LoadState is a snapshot of a Resource
type LoadState[T any] struct {
	Loading bool
	Data    T
	Err     error
}

// Resource holds the result of a fetch-on-load. Each Load supersedes the
// previous one; a result whose token was cancelled (by a newer Load, by
// Teardown, or by the caller's context) is never applied. A failed load is
// terminal until Load is called again.
type Resource[T any] struct {
	mu       sync.Mutex
	state    LoadState[T]
	token    *Token
	tornDown bool
}

// NewResource creates a resource in the loading state, matching a page that
// starts fetching as soon as it is shown.
func NewResource[T any]() *Resource[T] {
	return &Resource[T]{state: LoadState[T]{Loading: true}}
}

// Load runs fetch and applies its outcome unless the token was cancelled in
// the meantime. It reports whether the outcome was applied.
func (r *Resource[T]) Load(ctx context.Context, fetch func(ctx context.Context) (T, error)) (bool, error) {
	token, err := r.begin(ctx)
	if err != nil {
		return false, err
	}

	data, fetchErr := fetch(token.Context())

	return r.finish(token, data, fetchErr), fetchErr
}

// Fail puts the resource in a terminal error state without fetching,
// superseding any in-flight load.
func (r *Resource[T]) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != nil {
		r.token.Cancel()
		r.token = nil
	}
	var zero T
	r.state = LoadState[T]{Data: zero, Err: err}
}

// Teardown cancels any in-flight load and refuses later ones
func (r *Resource[T]) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tornDown = true
	if r.token != nil {
		r.token.Cancel()
		r.token = nil
	}
}

// State returns the current snapshot
func (r *Resource[T]) State() LoadState[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resource[T]) begin(ctx context.Context) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tornDown {
		return nil, ErrTornDown
	}
	if r.token != nil {
		r.token.Cancel()
	}

	token := newToken(ctx)
	r.token = token
	r.state.Loading = true
	r.state.Err = nil
	return token, nil
}

func (r *Resource[T]) finish(token *Token, data T, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer token.Cancel()

	if token.Cancelled() || r.token != token {
		return false
	}
	r.token = nil

	if err != nil {
		var zero T
		r.state = LoadState[T]{Data: zero, Err: err}
		return true
	}
	r.state = LoadState[T]{Data: data}
	return true
}
