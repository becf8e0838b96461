package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "[object]").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Scalar Types ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// NonEmptyType validates strings that contain at least one non-space character.
type NonEmptyType struct{}

func (t *NonEmptyType) Name() string { return "string!" }

func (t *NonEmptyType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		// JSON decodes every number as float64
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// --- Composite Types ---

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected list, got %T", value)
	}

	var errs []*ValidationError
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		key := fmt.Sprintf("[%d]", i)
		errs = append(errs, rekey(key, elem, t.elemType.Validate(elem))...)
	}
	if len(errs) > 0 {
		return &nestedError{errs: errs}
	}
	return nil
}

// ObjectType validates a map against a nested Schema.
type ObjectType struct {
	fields Schema
}

func (t *ObjectType) Name() string { return "object" }

func (t *ObjectType) Validate(value any) error {
	data, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", value)
	}
	if errs := validateFields(t.fields, data); len(errs) > 0 {
		return &nestedError{errs: errs}
	}
	return nil
}

// OptionalType marks a field that may be absent or null.
// When present, the value must satisfy the wrapped type.
type OptionalType struct {
	inner Type
}

func (t *OptionalType) Name() string { return t.inner.Name() + "?" }

func (t *OptionalType) Validate(value any) error {
	if value == nil {
		return nil
	}
	return t.inner.Validate(value)
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// NonEmpty creates a validator for strings that must not be blank.
func NonEmpty() Type { return &NonEmptyType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Object creates a validator for nested maps.
func Object(fields Schema) Type {
	return &ObjectType{fields: fields}
}

// Optional allows a field to be omitted.
func Optional(inner Type) Type {
	return &OptionalType{inner: inner}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// rekey converts the error returned by a child validation into
// ValidationErrors keyed under prefix.
func rekey(prefix string, value any, err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var nested *nestedError
	if errors.As(err, &nested) {
		out := make([]*ValidationError, 0, len(nested.errs))
		for _, child := range nested.errs {
			out = append(out, &ValidationError{
				Key:    joinKey(prefix, child.Key),
				Reason: child.Reason,
				Value:  child.Value,
			})
		}
		return out
	}
	return []*ValidationError{{Key: prefix, Reason: err.Error(), Value: value}}
}
