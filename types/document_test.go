package types

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func reviewSchema() *Schema {
	return NewSchema([]Field{
		{Name: "title", Type: FieldString},
		{Name: "rating", Type: FieldFloat, Sort: true},
		{Name: "tags", Type: FieldStringArray, Optional: true, Facet: true},
	}, "rating")
}

func TestValidateRejectsMissingRequiredField(t *testing.T) {
	doc := &Document{SeqID: 1, Fields: map[string]FieldValue{
		"rating": {Type: FieldFloat, Float: 4.5},
	}}
	err := Validate(reviewSchema(), doc)
	require.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestValidateAllowsMissingOptionalField(t *testing.T) {
	doc := &Document{SeqID: 1, Fields: map[string]FieldValue{
		"title":  {Type: FieldString, Str: "great book"},
		"rating": {Type: FieldFloat, Float: 4.5},
	}}
	require.NoError(t, Validate(reviewSchema(), doc))
}

func TestValidateRejectsTypeMismatch(t *testing.T) {
	doc := &Document{SeqID: 1, Fields: map[string]FieldValue{
		"title":  {Type: FieldInt64, Int64: 5},
		"rating": {Type: FieldFloat, Float: 4.5},
	}}
	err := Validate(reviewSchema(), doc)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValidateRejectsNaNFloat(t *testing.T) {
	doc := &Document{SeqID: 1, Fields: map[string]FieldValue{
		"title":  {Type: FieldString, Str: "great book"},
		"rating": {Type: FieldFloat, Float: float32(math.NaN())},
	}}
	err := Validate(reviewSchema(), doc)
	require.ErrorIs(t, err, ErrNumericOutOfRange)
}

func TestValidateRejectsInfiniteFloat(t *testing.T) {
	doc := &Document{SeqID: 1, Fields: map[string]FieldValue{
		"title":  {Type: FieldString, Str: "great book"},
		"rating": {Type: FieldFloat, Float: float32(math.Inf(1))},
	}}
	err := Validate(reviewSchema(), doc)
	require.ErrorIs(t, err, ErrNumericOutOfRange)
}

func TestValidateRejectsOversizedStringField(t *testing.T) {
	doc := &Document{SeqID: 1, Fields: map[string]FieldValue{
		"title":  {Type: FieldString, Str: strings.Repeat("a", MaxStringFieldBytes+1)},
		"rating": {Type: FieldFloat, Float: 4.5},
	}}
	err := Validate(reviewSchema(), doc)
	require.ErrorIs(t, err, ErrValueTooLarge)
}

func TestStringValuesOfHandlesScalarAndArray(t *testing.T) {
	require.Equal(t, []string{"a"}, StringValuesOf(FieldValue{Type: FieldString, Str: "a"}))
	require.Equal(t, []string{"a", "b"}, StringValuesOf(FieldValue{Type: FieldStringArray, StrArr: []string{"a", "b"}}))
	require.Nil(t, StringValuesOf(FieldValue{Type: FieldInt64, Int64: 1}))
}

func TestNumericValuesOfEncodesFloatAndBool(t *testing.T) {
	require.Equal(t, []int64{EncodeFloat32(1.5)}, NumericValuesOf(FieldValue{Type: FieldFloat, Float: 1.5}))
	require.Equal(t, []int64{1}, NumericValuesOf(FieldValue{Type: FieldBool, Bool: true}))
}

func TestEncodeFloat32PreservesOrderIncludingNegatives(t *testing.T) {
	require.Less(t, EncodeFloat32(-5.0), EncodeFloat32(-1.0))
	require.Less(t, EncodeFloat32(-1.0), EncodeFloat32(0.0))
	require.Less(t, EncodeFloat32(0.0), EncodeFloat32(1.0))
	require.Less(t, EncodeFloat32(1.0), EncodeFloat32(5.0))
}

func TestDecodeFloat32InvertsEncodeFloat32(t *testing.T) {
	for _, v := range []float32{-42.25, -1, 0, 1, 3.5, 1000.125} {
		require.Equal(t, v, DecodeFloat32(EncodeFloat32(v)))
	}
}

func TestErrorCodeUnwrapsIndexError(t *testing.T) {
	err := NewIndexError(1, "title", ErrMissingRequiredField)
	require.Equal(t, "missing_required_field", ErrorCode(err))
}

func TestErrorCodeUnwrapsQueryError(t *testing.T) {
	err := NewQueryError("price", ErrUnknownField)
	require.Equal(t, "unknown_field", ErrorCode(err))
}

func TestErrorCodeDefaultsToOther(t *testing.T) {
	require.Equal(t, "other", ErrorCode(nil))
}

func TestDefaultSortFieldDefRejectsOptionalField(t *testing.T) {
	s := NewSchema([]Field{
		{Name: "rating", Type: FieldFloat, Optional: true},
	}, "rating")
	_, err := s.DefaultSortFieldDef()
	require.ErrorIs(t, err, ErrDefaultSortFieldNotNumeric)
}

func TestDefaultSortFieldDefRejectsMissingField(t *testing.T) {
	s := NewSchema([]Field{{Name: "title", Type: FieldString}}, "rating")
	_, err := s.DefaultSortFieldDef()
	require.ErrorIs(t, err, ErrDefaultSortFieldMissing)
}

func TestFacetPositionAssignsStableOrdinals(t *testing.T) {
	s := reviewSchema()
	require.Equal(t, 0, s.FacetPosition("tags"))
	require.Equal(t, -1, s.FacetPosition("title"))
}
