package mysql

import (
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

// Translator relies on MySQL's case insensitive default collation: plain
// LIKE and REGEXP are the insensitive forms and BINARY forces a case
// sensitive match.
type Translator struct {
	*translator.Base
}

// NewTranslator creates the MySQL translator.
func NewTranslator() *Translator {
	return &Translator{Base: translator.New(translator.Options{Predicates: predicates})}
}

func predicates(b *translator.Builder) {
	b.Rule(translator.IExact).Using("%s LIKE %s").Value(translator.LikeEscape)
	b.Rule(translator.Contains).Using("%s LIKE BINARY %s")
	b.Rule(translator.IContains).Using("%s LIKE %s")
	b.Rule(translator.StartsWith).Using("%s LIKE BINARY %s")
	b.Rule(translator.IStartsWith).Using("%s LIKE %s")
	b.Rule(translator.EndsWith).Using("%s LIKE BINARY %s")
	b.Rule(translator.IEndsWith).Using("%s LIKE %s")
	b.Rule(translator.Regex).Using("%s REGEXP BINARY %s")
	b.Rule(translator.IRegex).Using("%s REGEXP %s")
	b.Rule(translator.Year).Using("YEAR(%s) = %s")
	b.Rule(translator.Month).Using("MONTH(%s) = %s")
	b.Rule(translator.Day).Using("DAYOFMONTH(%s) = %s")
	// DAYOFWEEK counts from 1 = Sunday
	b.Rule(translator.Weekday).Using("DAYOFWEEK(%s) = %s").Value(translator.Offset(1))
	b.Rule(translator.Hour).Using("HOUR(%s) = %s")
	b.Rule(translator.Minute).Using("MINUTE(%s) = %s")
	b.Rule(translator.Second).Using("SECOND(%s) = %s")
}

// Type spells the MySQL column types.
func (t *Translator) Type(ct translator.ColumnType, opts translator.TypeOptions) (string, error) {
	switch ct {
	case translator.Serial:
		return "integer AUTO_INCREMENT PRIMARY KEY", nil
	case translator.Binary:
		return "longblob", nil
	case translator.Bool:
		return "tinyint(1)", nil
	case translator.DateTime:
		return "datetime", nil
	case translator.Float:
		return "double", nil
	case translator.Decimal:
		return translator.Numeric("decimal", opts)
	}
	return t.Base.Type(ct, opts)
}

// Ensure Translator implements translator.Translator interface.
var _ translator.Translator = (*Translator)(nil)
