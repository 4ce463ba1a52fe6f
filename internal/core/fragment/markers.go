package fragment

// Field marks a string as a column reference. Grammars quote it instead of
// binding it as a value.
type Field string

// Name returns the dotted column name.
func (f Field) Name() string {
	return string(f)
}

// Literal marks a string as raw SQL to be emitted unescaped.
type Literal string

// SQL returns the raw SQL text.
func (l Literal) SQL() string {
	return string(l)
}
