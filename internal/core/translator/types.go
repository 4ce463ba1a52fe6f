package translator

import (
	"fmt"
	"strings"
)

// ColumnType is an abstract column type.
type ColumnType string

const (
	Serial    ColumnType = "serial"
	Integer   ColumnType = "integer"
	Integer64 ColumnType = "integer64"
	String    ColumnType = "string"
	Text      ColumnType = "text"
	Binary    ColumnType = "binary"
	Bool      ColumnType = "bool"
	Date      ColumnType = "date"
	Time      ColumnType = "time"
	DateTime  ColumnType = "dateTime"
	Float     ColumnType = "float"
	Decimal   ColumnType = "decimal"
)

// DefaultStringLength is the varchar length used when none is given.
const DefaultStringLength = 255

var columnTypes = []ColumnType{
	Serial, Integer, Integer64, String, Text, Binary,
	Bool, Date, Time, DateTime, Float, Decimal,
}

// ParseColumnType resolves a type name, ignoring case.
func ParseColumnType(name string) (ColumnType, error) {
	for _, ct := range columnTypes {
		if strings.EqualFold(string(ct), name) {
			return ct, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumnType, name)
}

// TypeOptions parameterizes a column type. Zero means unset.
type TypeOptions struct {
	Length    int `yaml:"length"`
	Precision int `yaml:"precision"`
	Scale     int `yaml:"scale"`
}

// StringLength returns the varchar length, defaulting to
// DefaultStringLength.
func (o TypeOptions) StringLength() int {
	if o.Length <= 0 {
		return DefaultStringLength
	}
	return o.Length
}

// TypeByName resolves an abstract type name and asks t for its spelling.
func TypeByName(t Translator, name string, opts TypeOptions) (string, error) {
	ct, err := ParseColumnType(name)
	if err != nil {
		return "", err
	}
	return t.Type(ct, opts)
}
