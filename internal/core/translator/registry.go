package translator

import "fmt"

// Canonical predicate names.
const (
	Exact       = "exact"
	IExact      = "iExact"
	Contains    = "contains"
	IContains   = "iContains"
	StartsWith  = "startsWith"
	IStartsWith = "iStartsWith"
	EndsWith    = "endsWith"
	IEndsWith   = "iEndsWith"
	Regex       = "regex"
	IRegex      = "iRegex"
	Between     = "between"
	In          = "in"
	Gt          = "gt"
	Gte         = "gte"
	Lt          = "lt"
	Lte         = "lte"
	IsNull      = "isNull"
	Year        = "year"
	Month       = "month"
	Day         = "day"
	Weekday     = "weekday"
	Hour        = "hour"
	Minute      = "minute"
	Second      = "second"
)

// Registry is an immutable, ordered set of predicate rules.
type Registry struct {
	rules  []*PredicateRule
	byName map[string]*PredicateRule
}

// Builder collects rules while a registry is being constructed.
type Builder struct {
	reg *Registry
}

// NewRegistry builds a registry by running each build function in order.
// Later functions customize the rules earlier ones defined.
func NewRegistry(build ...func(*Builder)) *Registry {
	b := &Builder{reg: &Registry{byName: map[string]*PredicateRule{}}}
	for _, fn := range build {
		if fn != nil {
			fn(b)
		}
	}
	return b.reg
}

// Define fetches the rule named name, creating it with the given alias
// pattern if it does not exist yet.
func (b *Builder) Define(name, pattern string) *PredicateRule {
	if rule, ok := b.reg.byName[name]; ok {
		return rule
	}
	rule := NewRule(name, pattern)
	b.reg.rules = append(b.reg.rules, rule)
	b.reg.byName[name] = rule
	return rule
}

// Rule fetches or creates the rule named name.
func (b *Builder) Rule(name string) *PredicateRule {
	return b.Define(name, "")
}

// Resolve returns the first rule matching predicate.
func (r *Registry) Resolve(predicate string) (*PredicateRule, error) {
	for _, rule := range r.rules {
		if rule.Test(predicate) {
			return rule, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnresolvedPredicate, predicate)
}

// Rules returns the rules in definition order.
func (r *Registry) Rules() []*PredicateRule {
	return append([]*PredicateRule(nil), r.rules...)
}

// Names lists the canonical rule names in definition order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.name
	}
	return names
}

// DefaultPredicates defines the ANSI rendering of every canonical predicate.
func DefaultPredicates(b *Builder) {
	b.Define(Exact, `exact|eql|eq`).Using("%s = %s")
	b.Define(IExact, `iexact|ieql`).Using("UPPER(%s) = UPPER(%s)")
	b.Define(Contains, `contains`).Using("%s LIKE %s").Value(LikeEscape, WrapContains)
	b.Define(IContains, `icontains`).Using("UPPER(%s) LIKE UPPER(%s)").Value(LikeEscape, WrapContains)
	b.Define(StartsWith, `startswith|starts`).Using("%s LIKE %s").Value(LikeEscape, WrapStartsWith)
	b.Define(IStartsWith, `istartswith|istarts`).Using("UPPER(%s) LIKE UPPER(%s)").Value(LikeEscape, WrapStartsWith)
	b.Define(EndsWith, `endswith|ends`).Using("%s LIKE %s").Value(LikeEscape, WrapEndsWith)
	b.Define(IEndsWith, `iendswith|iends`).Using("UPPER(%s) LIKE UPPER(%s)").Value(LikeEscape, WrapEndsWith)
	b.Define(Regex, `regex|matches`).Using("%s ~ %s").Value(RegexSource)
	b.Define(IRegex, `iregex|imatches`).Using("%s ~* %s").Value(RegexSource)
	b.Define(Between, `between|range`).Using("%s BETWEEN %s AND %s").Value(SpreadBetween)
	b.Define(In, `in`).Using("%s IN (%s)").Expands()
	b.Define(Gt, `gt`).Using("%s > %s")
	b.Define(Gte, `gte`).Using("%s >= %s")
	b.Define(Lt, `lt`).Using("%s < %s")
	b.Define(Lte, `lte`).Using("%s <= %s")
	b.Define(IsNull, `isnull|null`).Using("%s IS %s").Value(NullLiteral)
	b.Define(Year, `year`).Using("EXTRACT(YEAR FROM %s) = %s")
	b.Define(Month, `month`).Using("EXTRACT(MONTH FROM %s) = %s")
	b.Define(Day, `day`).Using("EXTRACT(DAY FROM %s) = %s")
	b.Define(Weekday, `weekday|dow`).Using("EXTRACT(DOW FROM %s) = %s").Value(WeekdayNumber)
	b.Define(Hour, `hour`).Using("EXTRACT(HOUR FROM %s) = %s")
	b.Define(Minute, `minute`).Using("EXTRACT(MINUTE FROM %s) = %s")
	b.Define(Second, `second`).Using("EXTRACT(SECOND FROM %s) = %s")
}
