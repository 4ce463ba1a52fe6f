// Package procedure runs multi-statement operations that a single SQL
// statement cannot express, such as a table rebuild. Every procedure runs
// inside one transaction.
package procedure

import (
	"context"
	"fmt"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/debug"
)

// Queryer runs a raw query and returns its rows. Statements that return
// no rows yield an empty slice.
type Queryer interface {
	Raw(ctx context.Context, query string, args ...interface{}) ([]Row, error)
}

// Tx is a transaction scoped Queryer.
type Tx interface {
	Queryer
	Commit() error
	Rollback() error
}

// Executor is the database handle a procedure runs against.
type Executor interface {
	Queryer
	Begin(ctx context.Context) (Tx, error)
}

// Session is an Executor bound to a single connection.
type Session interface {
	Executor
	Close() error
}

// Pinner is implemented by executors backed by a pool. Statements run
// through the returned session share one connection.
type Pinner interface {
	Pin(ctx context.Context) (Session, error)
}

// Step is one unit of a procedure. Steps run strictly in order.
type Step func(ctx context.Context, q Queryer) error

// Setup runs on the connection before the transaction opens, for settings
// that cannot change inside one. The returned teardown, if any, runs
// after the transaction ends, whether it committed or not.
type Setup func(ctx context.Context, q Queryer) (teardown Step, err error)

// Procedure is a named, ordered list of steps.
type Procedure struct {
	name   string
	setups []Setup
	steps  []Step
}

// New creates a procedure.
func New(name string, steps ...Step) *Procedure {
	return &Procedure{name: name, steps: steps}
}

// Statements creates a procedure that executes stmts in order.
func Statements(name string, stmts ...fragment.Statement) *Procedure {
	steps := make([]Step, len(stmts))
	for i, stmt := range stmts {
		steps[i] = Exec(stmt)
	}
	return New(name, steps...)
}

// Exec returns a step that executes stmt.
func Exec(stmt fragment.Statement) Step {
	return func(ctx context.Context, q Queryer) error {
		debug.Statement("Executing procedure statement", stmt.SQL, stmt.Args)
		_, err := q.Raw(ctx, stmt.SQL, stmt.Args...)
		return err
	}
}

// Name returns the procedure name.
func (p *Procedure) Name() string {
	return p.name
}

// Len returns the number of steps.
func (p *Procedure) Len() int {
	return len(p.steps)
}

// Then returns a procedure running p's steps followed by the steps of
// others. p is not modified.
func (p *Procedure) Then(others ...*Procedure) *Procedure {
	setups := append([]Setup(nil), p.setups...)
	steps := append([]Step(nil), p.steps...)
	for _, o := range others {
		if o != nil {
			setups = append(setups, o.setups...)
			steps = append(steps, o.steps...)
		}
	}
	return &Procedure{name: p.name, setups: setups, steps: steps}
}

// WithSetup returns a copy of p that runs s around its transaction.
func (p *Procedure) WithSetup(s Setup) *Procedure {
	return &Procedure{
		name:   p.name,
		setups: append(append([]Setup(nil), p.setups...), s),
		steps:  p.steps,
	}
}

// Steps runs p's steps against q without opening a transaction. It is
// used to nest a procedure inside another one.
func (p *Procedure) Steps(ctx context.Context, q Queryer) error {
	for _, step := range p.steps {
		if err := step(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// Run executes every step inside one transaction. If a step fails the
// transaction is rolled back and the step's error is returned unchanged.
// Setups run first, on the same connection when ex is a Pinner, and their
// teardowns run in reverse order once the transaction has ended.
func (p *Procedure) Run(ctx context.Context, ex Executor) (err error) {
	debug.Debug("Running procedure", "name", p.name, "steps", len(p.steps))

	if len(p.setups) > 0 {
		if pinner, ok := ex.(Pinner); ok {
			session, pinErr := pinner.Pin(ctx)
			if pinErr != nil {
				return fmt.Errorf("procedure %s: pin connection: %w", p.name, pinErr)
			}
			defer session.Close()
			ex = session
		}

		var teardowns []Step
		defer func() {
			for i := len(teardowns) - 1; i >= 0; i-- {
				if tdErr := teardowns[i](ctx, ex); tdErr != nil {
					debug.Error("Procedure teardown failed", "name", p.name, "error", tdErr)
					if err == nil {
						err = fmt.Errorf("procedure %s: teardown: %w", p.name, tdErr)
					}
				}
			}
		}()
		for _, setup := range p.setups {
			teardown, setupErr := setup(ctx, ex)
			if setupErr != nil {
				return fmt.Errorf("procedure %s: setup: %w", p.name, setupErr)
			}
			if teardown != nil {
				teardowns = append(teardowns, teardown)
			}
		}
	}

	return p.transaction(ctx, ex)
}

func (p *Procedure) transaction(ctx context.Context, ex Executor) error {
	tx, err := ex.Begin(ctx)
	if err != nil {
		return fmt.Errorf("procedure %s: begin transaction: %w", p.name, err)
	}

	for i, step := range p.steps {
		if err := step(ctx, tx); err != nil {
			debug.Warn("Procedure step failed, rolling back", "name", p.name, "step", i, "error", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				debug.Error("Procedure rollback failed", "name", p.name, "error", rbErr)
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("procedure %s: commit transaction: %w", p.name, err)
	}
	debug.Debug("Procedure committed", "name", p.name)
	return nil
}
