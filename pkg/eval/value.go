package eval

import (
	"math"
	"strconv"

	"toyc/pkg/compiler"
)

// Value is a tagged union over the language's types. Scalars live in Data;
// strings in Str.
type Value struct {
	Type compiler.Type
	Data uint64
	Str  string
}

// Void is returned by an empty program.
var Void = Value{Type: compiler.Void}

func IntValue(i int64) Value     { return Value{Type: compiler.Int, Data: uint64(i)} }
func FloatValue(f float64) Value { return Value{Type: compiler.Float, Data: math.Float64bits(f)} }
func CharValue(r rune) Value     { return Value{Type: compiler.Char, Data: uint64(r)} }
func StringValue(s string) Value { return Value{Type: compiler.String, Str: s} }

func BoolValue(b bool) Value {
	v := Value{Type: compiler.Bool}
	if b {
		v.Data = 1
	}
	return v
}

// Int returns the value as int64.
func (v Value) Int() int64 { return int64(v.Data) }

// Float returns the value as float64, converting Int.
func (v Value) Float() float64 {
	if v.Type == compiler.Float {
		return math.Float64frombits(v.Data)
	}
	return float64(int64(v.Data))
}

func (v Value) Bool() bool { return v.Data != 0 }
func (v Value) Char() rune { return rune(v.Data) }

// String renders the value the way print shows it.
func (v Value) String() string {
	switch v.Type {
	case compiler.Int:
		return strconv.FormatInt(v.Int(), 10)
	case compiler.Float:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case compiler.Bool:
		return strconv.FormatBool(v.Bool())
	case compiler.Char:
		return string(v.Char())
	case compiler.String:
		return v.Str
	}
	return "void"
}
