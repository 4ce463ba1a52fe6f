package postgres

import (
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

// Translator casts LIKE and regex operands to text so they apply to any
// column type, and uses ILIKE for the case insensitive variants.
type Translator struct {
	*translator.Base
}

// NewTranslator creates the PostgreSQL translator.
func NewTranslator() *Translator {
	return &Translator{Base: translator.New(translator.Options{Predicates: predicates})}
}

func predicates(b *translator.Builder) {
	b.Rule(translator.IExact).Using("%s::text ILIKE %s").ResetValue().Value(translator.LikeEscape)
	b.Rule(translator.Contains).Using("%s::text LIKE %s")
	b.Rule(translator.IContains).Using("%s::text ILIKE %s")
	b.Rule(translator.StartsWith).Using("%s::text LIKE %s")
	b.Rule(translator.IStartsWith).Using("%s::text ILIKE %s")
	b.Rule(translator.EndsWith).Using("%s::text LIKE %s")
	b.Rule(translator.IEndsWith).Using("%s::text ILIKE %s")
	b.Rule(translator.Regex).Using("%s::text ~ %s")
	b.Rule(translator.IRegex).Using("%s::text ~* %s")
}

// Type spells the types PostgreSQL names differently.
func (t *Translator) Type(ct translator.ColumnType, opts translator.TypeOptions) (string, error) {
	switch ct {
	case translator.Binary:
		return "bytea", nil
	case translator.Float:
		return "double precision", nil
	case translator.DateTime:
		return "timestamp with time zone", nil
	}
	return t.Base.Type(ct, opts)
}

// Ensure Translator implements translator.Translator interface.
var _ translator.Translator = (*Translator)(nil)
