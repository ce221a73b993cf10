package lims

import (
	"fmt"
	"strconv"
	"time"
)

// Kind is the declared type of a user-defined field value.
type Kind int

const (
	String Kind = iota
	Numeric
	Date
	Boolean
)

const dateLayout = "2006-01-02"

// Value is a tagged UDF value. Values are parsed from their XML
// representation on read and formatted back on write, so scripts work with
// typed data while the wire format stays textual.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
	flag bool
}

// StringValue returns a String-kinded Value.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// NumericValue returns a Numeric-kinded Value.
func NumericValue(f float64) Value { return Value{kind: Numeric, num: f} }

// DateValue returns a Date-kinded Value. Only the calendar date is kept.
func DateValue(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: Date, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// BoolValue returns a Boolean-kinded Value.
func BoolValue(b bool) Value { return Value{kind: Boolean, flag: b} }

// ParseValue converts the wire representation (the type attribute plus the
// element text) into a typed Value. An unrecognized type name falls back to
// String; malformed typed text is an error.
func ParseValue(typeAttr, text string) (Value, error) {
	return parseValue(typeAttr, text)
}

func parseValue(typeAttr, text string) (Value, error) {
	switch typeAttr {
	case "Numeric":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid numeric UDF value %q: %w", text, err)
		}
		return NumericValue(f), nil
	case "Date":
		t, err := time.Parse(dateLayout, text)
		if err != nil {
			return Value{}, fmt.Errorf("invalid date UDF value %q: %w", text, err)
		}
		return DateValue(t), nil
	case "Boolean":
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("invalid boolean UDF value %q: %w", text, err)
		}
		return BoolValue(b), nil
	default:
		return StringValue(text), nil
	}
}

// Kind returns the value's declared type.
func (v Value) Kind() Kind { return v.kind }

// typeAttr is the wire name of the value's type.
func (v Value) typeAttr() string {
	switch v.kind {
	case Numeric:
		return "Numeric"
	case Date:
		return "Date"
	case Boolean:
		return "Boolean"
	default:
		return "String"
	}
}

// String formats the value the way it is written on the wire.
func (v Value) String() string {
	switch v.kind {
	case Numeric:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Date:
		return v.date.Format(dateLayout)
	case Boolean:
		return strconv.FormatBool(v.flag)
	default:
		return v.str
	}
}

// Float returns the numeric value; ok is false for other kinds.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == Numeric
}

// Time returns the date value; ok is false for other kinds.
func (v Value) Time() (time.Time, bool) {
	return v.date, v.kind == Date
}

// Bool returns the boolean value; ok is false for other kinds.
func (v Value) Bool() (bool, bool) {
	return v.flag, v.kind == Boolean
}
