package aliased

import (
	"fmt"
	"math"
)

// Register identifies a virtual register in the method being optimized.
type Register = uint32

// ResultRegister is the pseudo-register that holds the result of the most
// recent invoke instruction.
const ResultRegister Register = math.MaxUint32 - 1

// Tag discriminates the variants of a [Value].
type Tag uint8

const (
	TagNone Tag = iota
	TagRegister
	TagConstLiteral
	TagConstLiteralUpper
	TagConstString
	TagConstType
	TagStaticFinal
	TagStaticFinalUpper
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagRegister:
		return "register"
	case TagConstLiteral:
		return "literal"
	case TagConstLiteralUpper:
		return "literal/hi"
	case TagConstString:
		return "string"
	case TagConstType:
		return "type"
	case TagStaticFinal:
		return "field"
	case TagStaticFinalUpper:
		return "field/hi"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// StringConstant is the interned identity of a string constant. Two string
// constants are the same iff they are the same *StringConstant.
type StringConstant struct{ Value string }

// TypeConstant is the interned identity of a type constant.
type TypeConstant struct{ Name string }

// FieldRef is the interned identity of a static final field.
type FieldRef struct {
	Class string
	Name  string
}

// Value is one trackable storage slot or constant: a virtual register, a
// 64-bit literal, an interned string or type constant, or a static final
// field. Wide (64-bit) operations produce a separate value for the upper
// half of the pair; the upper tags keep the two halves from ever landing in
// the same alias group, even when the payloads coincide.
//
// Values are immutable and comparable; equality is structural over
// (tag, payload). The zero Value is None.
type Value struct {
	tag     Tag
	reg     Register
	literal int64
	str     *StringConstant
	typ     *TypeConstant
	field   *FieldRef
}

// None returns the "no location" sentinel.
func None() Value { return Value{} }

// MakeRegister returns the value tracking virtual register r.
func MakeRegister(r Register) Value {
	return Value{tag: TagRegister, reg: r}
}

// MakeLiteral returns the value for a constant literal (or the lower half
// of a wide literal).
func MakeLiteral(l int64) Value {
	return Value{tag: TagConstLiteral, literal: l}
}

// MakeLiteralUpper returns the value for the upper half of a wide literal.
// It is never equal to MakeLiteral of the same payload.
func MakeLiteralUpper(l int64) Value {
	return Value{tag: TagConstLiteralUpper, literal: l}
}

// MakeString returns the value for an interned string constant.
func MakeString(s *StringConstant) Value {
	if s == nil {
		panic(fmt.Errorf("aliased: nil string constant"))
	}
	return Value{tag: TagConstString, str: s}
}

// MakeType returns the value for an interned type constant.
func MakeType(t *TypeConstant) Value {
	if t == nil {
		panic(fmt.Errorf("aliased: nil type constant"))
	}
	return Value{tag: TagConstType, typ: t}
}

// MakeField returns the value for a static final field (or the lower half
// of a wide field load).
func MakeField(f *FieldRef) Value {
	if f == nil {
		panic(fmt.Errorf("aliased: nil field"))
	}
	return Value{tag: TagStaticFinal, field: f}
}

// MakeFieldUpper returns the placeholder for the upper half of the wide
// value held by f. A wide field load wants two separate alias groups, one
// per half; the distinct tag guarantees the field itself cannot connect
// them.
func MakeFieldUpper(f *FieldRef) Value {
	if f == nil {
		panic(fmt.Errorf("aliased: nil field"))
	}
	return Value{tag: TagStaticFinalUpper, field: f}
}

// Tag returns the variant of v.
func (v Value) Tag() Tag { return v.tag }

// IsNone reports whether v is the None sentinel.
func (v Value) IsNone() bool { return v.tag == TagNone }

// IsRegister reports whether v tracks a virtual register.
func (v Value) IsRegister() bool { return v.tag == TagRegister }

// Reg returns the register payload. Calling Reg on a non-register value is
// a caller bug and panics.
func (v Value) Reg() Register {
	if v.tag != TagRegister {
		panic(fmt.Errorf("aliased: Reg() on %s value", v.tag))
	}
	return v.reg
}

func (v Value) String() string {
	switch v.tag {
	case TagNone:
		return "Ø"
	case TagRegister:
		if v.reg == ResultRegister {
			return "vRESULT"
		}
		return fmt.Sprintf("v%d", v.reg)
	case TagConstLiteral:
		return fmt.Sprintf("#%d", v.literal)
	case TagConstLiteralUpper:
		return fmt.Sprintf("#%d↑", v.literal)
	case TagConstString:
		return fmt.Sprintf("%q", v.str.Value)
	case TagConstType:
		return v.typ.Name
	case TagStaticFinal:
		return fmt.Sprintf("%s.%s", v.field.Class, v.field.Name)
	case TagStaticFinalUpper:
		return fmt.Sprintf("%s.%s↑", v.field.Class, v.field.Name)
	default:
		return fmt.Sprintf("Value(%s)", v.tag)
	}
}
