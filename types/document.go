package types

import (
	"fmt"
	"math"
)

// MaxStringFieldBytes bounds the length of any single string value (scalar
// or array element), rejected with ErrValueTooLarge beyond it — spec.md §6
// names ValueTooLarge in index()'s error set without pinning a size, so
// this follows the same production-ingest-cap shape as original_source's
// per-field bounds checks without porting an exact byte count from it.
const MaxStringFieldBytes = 100 * 1024

// FieldValue is a tagged variant over the value shapes a document field may
// hold, replacing the inheritance-based field-type handling flagged in
// spec.md §9 with an exhaustive Go type switch at the ingest and filter
// boundaries.
type FieldValue struct {
	Type       FieldType
	Str        string
	Int32      int32
	Int64      int64
	Float      float32
	Bool       bool
	StrArr     []string
	Int32Arr   []int32
	Int64Arr   []int64
	FloatArr   []float32
	BoolArr    []bool
}

// Document is an unordered mapping from field name to value, plus the
// stable, monotonically assigned sequence id and external string id
// described in spec.md §3.
type Document struct {
	SeqID      uint32
	ExternalID string
	Fields     map[string]FieldValue
}

// Validate checks doc against schema: every non-optional field must be
// present and type-correct. Validation runs before any index mutation
// (spec.md §3 invariant); it returns the first error found, wrapped in an
// *IndexError so batch ingest can report it without aborting the batch.
func Validate(schema *Schema, doc *Document) error {
	for i := range schema.Fields {
		f := &schema.Fields[i]
		val, present := doc.Fields[f.Name]
		if !present {
			if f.Optional {
				continue
			}
			return NewIndexError(doc.SeqID, f.Name, ErrMissingRequiredField)
		}
		if err := checkType(f.Type, val); err != nil {
			return NewIndexError(doc.SeqID, f.Name, err)
		}
	}
	return nil
}

// checkType verifies v's tag matches want, then applies the range/size
// checks index() is specified to perform (spec.md §6): a float outside the
// finite range EncodeFloat32's total order assumes is ErrNumericOutOfRange,
// grounded on original_source's "exceeds maximum value of a float" check on
// the default sorting field (index.cpp, validate_index_in_memory); a string
// value beyond MaxStringFieldBytes is ErrValueTooLarge. Go's FieldValue
// variant already makes original_source's int32-overflow check
// structurally unreachable — an int32 field's value is stored as a Go
// int32, so it cannot carry a value outside int32's range in the first
// place (see DESIGN.md).
func checkType(want FieldType, v FieldValue) error {
	if v.Type != want {
		return fmt.Errorf("%w: expected %v, got %v", ErrTypeMismatch, want, v.Type)
	}
	switch want {
	case FieldFloat:
		if !isFiniteFloat(v.Float) {
			return ErrNumericOutOfRange
		}
	case FieldFloatArray:
		for _, f := range v.FloatArr {
			if !isFiniteFloat(f) {
				return ErrNumericOutOfRange
			}
		}
	case FieldString:
		if len(v.Str) > MaxStringFieldBytes {
			return ErrValueTooLarge
		}
	case FieldStringArray:
		for _, s := range v.StrArr {
			if len(s) > MaxStringFieldBytes {
				return ErrValueTooLarge
			}
		}
	}
	return nil
}

func isFiniteFloat(f float32) bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// StringField returns the string value(s) of a field as a slice — a single
// element for scalar string fields, one element per array entry for string
// array fields. Non-string fields return nil.
func (d *Document) StringField(name string) []string {
	v, ok := d.Fields[name]
	if !ok {
		return nil
	}
	return StringValuesOf(v)
}

// StringValuesOf returns v's string element(s): one for a scalar string, one
// per element for a string array, nil for any other type.
func StringValuesOf(v FieldValue) []string {
	switch v.Type {
	case FieldString:
		return []string{v.Str}
	case FieldStringArray:
		return v.StrArr
	default:
		return nil
	}
}

// NumericValues returns the field's numeric value(s) encoded per §3, one
// entry per array element for array fields.
func (d *Document) NumericValues(name string) []int64 {
	v, ok := d.Fields[name]
	if !ok {
		return nil
	}
	return NumericValuesOf(v)
}

// NumericValuesOf returns v's numeric element(s), encoded per §3 (float32
// via EncodeFloat32, bool via EncodeBool), one per array element for array
// types. Returns nil for string types.
func NumericValuesOf(v FieldValue) []int64 {
	switch v.Type {
	case FieldInt32:
		return []int64{int64(v.Int32)}
	case FieldInt64:
		return []int64{v.Int64}
	case FieldFloat:
		return []int64{EncodeFloat32(v.Float)}
	case FieldBool:
		return []int64{EncodeBool(v.Bool)}
	case FieldInt32Array:
		out := make([]int64, len(v.Int32Arr))
		for i, x := range v.Int32Arr {
			out[i] = int64(x)
		}
		return out
	case FieldInt64Array:
		return append([]int64(nil), v.Int64Arr...)
	case FieldFloatArray:
		out := make([]int64, len(v.FloatArr))
		for i, x := range v.FloatArr {
			out[i] = EncodeFloat32(x)
		}
		return out
	case FieldBoolArray:
		out := make([]int64, len(v.BoolArr))
		for i, x := range v.BoolArr {
			out[i] = EncodeBool(x)
		}
		return out
	default:
		return nil
	}
}
