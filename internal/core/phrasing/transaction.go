package phrasing

import (
	"fmt"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
)

// SavepointName returns the savepoint used for a nesting level.
func SavepointName(level int) string {
	return fmt.Sprintf("sp_%d", level)
}

// Begin phrases BEGIN for the outermost transaction and a savepoint for
// nested levels.
func (b *Base) Begin(level int) (Phrase, error) {
	return b.transaction(level, "BEGIN", "SAVEPOINT %s")
}

// Commit phrases COMMIT or releases the level's savepoint.
func (b *Base) Commit(level int) (Phrase, error) {
	return b.transaction(level, "COMMIT", "RELEASE SAVEPOINT %s")
}

// Rollback phrases ROLLBACK or rolls back to the level's savepoint.
func (b *Base) Rollback(level int) (Phrase, error) {
	return b.transaction(level, "ROLLBACK", "ROLLBACK TO SAVEPOINT %s")
}

func (b *Base) transaction(level int, outermost, nested string) (Phrase, error) {
	if level < 0 {
		return Phrase{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if level == 0 {
		return StatementPhrase(fragment.Raw(outermost)), nil
	}
	return StatementPhrase(fragment.Raw(fmt.Sprintf(nested, b.Grammar.Quote(SavepointName(level))))), nil
}
