// Package text parses the textual condition syntax used by the CLI and by
// statement documents:
//
//	(status = 'open' or status = 'pending') and not owner$isNull = true
//
// Keys accept the same predicate suffixes as condition objects, and a
// backquoted value is a column reference.
package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/sqlphrase/internal/core/condition"
	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
)

var conditionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"`},
	{Name: "FieldRef", Pattern: "`[^`]+`"},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Operator", Pattern: `&&|\|\||!`},
	{Name: "Keyword", Pattern: `\b(?i:and|or|not)\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Punct", Pattern: `[()\[\]$=,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type query struct {
	Parts []*part `@@*`
}

type part struct {
	Operator   *string     `  @Operator`
	Keyword    *string     `| @Keyword`
	Group      *group      `| @@`
	Comparison *comparison `| @@`
}

type group struct {
	Parts []*part `"(" @@* ")"`
}

type comparison struct {
	Field     string `@Ident`
	Predicate string `( "[" @Ident "]" | "$" @Ident )?`
	Value     *value `"=" @@`
}

type value struct {
	String *string `  @String`
	Number *string `| @Number`
	Bool   *string `| @("true" | "false")`
	Null   bool    `| @"null"`
	Field  *string `| @FieldRef`
	List   *list   `| @@`
}

type list struct {
	Items []*value `"[" ( @@ ( "," @@ )* )? "]"`
}

var parser = participle.MustBuild[query](
	participle.Lexer(conditionLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String", "FieldRef"),
)

// Parse parses src into a condition.
func Parse(src string) (*condition.Condition, error) {
	parts, err := ParseParts(src)
	if err != nil {
		return nil, err
	}
	return condition.New(parts...)
}

// ParseParts parses src into the argument list condition.New accepts,
// without validating operator placement.
func ParseParts(src string) ([]interface{}, error) {
	if strings.TrimSpace(src) == "" {
		return nil, condition.ErrConditionRequired
	}
	q, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return convertParts(q.Parts)
}

func convertParts(parts []*part) ([]interface{}, error) {
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		switch {
		case p.Operator != nil:
			out = append(out, *p.Operator)
		case p.Keyword != nil:
			out = append(out, strings.ToLower(*p.Keyword))
		case p.Group != nil:
			inner, err := convertParts(p.Group.Parts)
			if err != nil {
				return nil, err
			}
			out = append(out, inner)
		case p.Comparison != nil:
			v, err := p.Comparison.Value.convert()
			if err != nil {
				return nil, err
			}
			key := p.Comparison.Field
			if p.Comparison.Predicate != "" {
				key += "$" + p.Comparison.Predicate
			}
			out = append(out, condition.Pairs{{Key: key, Value: v}})
		}
	}
	return out, nil
}

func (v *value) convert() (interface{}, error) {
	switch {
	case v.String != nil:
		return *v.String, nil
	case v.Number != nil:
		return parseNumber(*v.Number)
	case v.Bool != nil:
		return *v.Bool == "true", nil
	case v.Null:
		return nil, nil
	case v.Field != nil:
		return fragment.Field(*v.Field), nil
	case v.List != nil:
		items := make([]interface{}, len(v.List.Items))
		for i, item := range v.List.Items {
			converted, err := item.convert()
			if err != nil {
				return nil, err
			}
			items[i] = converted
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: empty value", ErrSyntax)
}

func parseNumber(s string) (interface{}, error) {
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return n, nil
}
