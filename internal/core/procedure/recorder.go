package procedure

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
)

// Recorder is an in-memory Executor that records every query and answers
// from canned results. It backs procedure tests and the CLI's dry run.
type Recorder struct {
	mu        sync.Mutex
	queries   []fragment.Statement
	results   map[string][]Row
	failures  map[string]error
	Committed int
	Rolled    int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		results:  make(map[string][]Row),
		failures: make(map[string]error),
	}
}

// Respond makes queries starting with prefix return rows.
func (r *Recorder) Respond(prefix string, rows ...Row) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[prefix] = rows
	return r
}

// Fail makes queries starting with prefix return err.
func (r *Recorder) Fail(prefix string, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[prefix] = err
	return r
}

// Queries returns the recorded statements in execution order.
func (r *Recorder) Queries() []fragment.Statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]fragment.Statement(nil), r.queries...)
}

// SQL returns the text of the recorded statements.
func (r *Recorder) SQL() []string {
	queries := r.Queries()
	out := make([]string, len(queries))
	for i, q := range queries {
		out[i] = q.SQL
	}
	return out
}

// Raw records query and returns the matching canned result.
func (r *Recorder) Raw(_ context.Context, query string, args ...interface{}) ([]Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, fragment.Statement{SQL: query, Args: args})

	if err := longestMatch(r.failures, query); err != nil {
		return nil, err
	}
	return longestMatch(r.results, query), nil
}

// Begin returns a transaction writing to the same log.
func (r *Recorder) Begin(context.Context) (Tx, error) {
	return &recorderTx{r: r}, nil
}

func longestMatch[T any](m map[string]T, query string) T {
	var best string
	var zero T
	found := false
	for prefix := range m {
		if strings.HasPrefix(query, prefix) && len(prefix) >= len(best) {
			best, found = prefix, true
		}
	}
	if !found {
		return zero
	}
	return m[best]
}

type recorderTx struct {
	r    *Recorder
	done bool
}

func (t *recorderTx) Raw(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	if t.done {
		return nil, fmt.Errorf("transaction already finished")
	}
	return t.r.Raw(ctx, query, args...)
}

func (t *recorderTx) Commit() error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true
	t.r.mu.Lock()
	t.r.Committed++
	t.r.mu.Unlock()
	return nil
}

func (t *recorderTx) Rollback() error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true
	t.r.mu.Lock()
	t.r.Rolled++
	t.r.mu.Unlock()
	return nil
}

var _ Executor = (*Recorder)(nil)
