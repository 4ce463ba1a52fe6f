package sqlite

import (
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

// Translator renders LIKE with an explicit escape character, regex
// patterns as /pattern/flags for the regexp function the driver
// registers, and date parts through strftime.
type Translator struct {
	*translator.Base
}

// NewTranslator creates the SQLite translator.
func NewTranslator() *Translator {
	return &Translator{Base: translator.New(translator.Options{Predicates: predicates})}
}

func predicates(b *translator.Builder) {
	const like = `%s LIKE %s ESCAPE '\'`
	b.Rule(translator.IExact).Using(like).Value(translator.LikeEscape)
	b.Rule(translator.Contains).Using(like)
	b.Rule(translator.IContains).Using(like)
	b.Rule(translator.StartsWith).Using(like)
	b.Rule(translator.IStartsWith).Using(like)
	b.Rule(translator.EndsWith).Using(like)
	b.Rule(translator.IEndsWith).Using(like)
	b.Rule(translator.Regex).Using(`%s REGEXP '/' || %s || '/'`)
	b.Rule(translator.IRegex).Using(`%s REGEXP '/' || %s || '/i'`)
	b.Rule(translator.Year).Using(`CAST(strftime('%%Y', %s) AS INTEGER) = %s`)
	b.Rule(translator.Month).Using(`CAST(strftime('%%m', %s) AS INTEGER) = %s`)
	b.Rule(translator.Day).Using(`CAST(strftime('%%d', %s) AS INTEGER) = %s`)
	b.Rule(translator.Weekday).Using(`CAST(strftime('%%w', %s) AS INTEGER) = %s`)
	b.Rule(translator.Hour).Using(`CAST(strftime('%%H', %s) AS INTEGER) = %s`)
	b.Rule(translator.Minute).Using(`CAST(strftime('%%M', %s) AS INTEGER) = %s`)
	b.Rule(translator.Second).Using(`CAST(strftime('%%S', %s) AS INTEGER) = %s`)
}

// Type spells the SQLite column types.
func (t *Translator) Type(ct translator.ColumnType, opts translator.TypeOptions) (string, error) {
	switch ct {
	case translator.Serial:
		return "integer PRIMARY KEY AUTOINCREMENT", nil
	case translator.Integer64:
		return "integer", nil
	case translator.DateTime:
		return "datetime", nil
	}
	return t.Base.Type(ct, opts)
}

// Ensure Translator implements translator.Translator interface.
var _ translator.Translator = (*Translator)(nil)
