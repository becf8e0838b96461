package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"id": NonEmpty(), "messages": Optional(Slice(Object(message)))}
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Returns an *AggregateError with all validation failures found.
// Keys absent from the schema are ignored.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	errs := validateFields(schema, data)
	if len(errs) == 0 {
		return nil
	}

	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return &AggregateError{Errors: out}
}

func validateFields(schema Schema, data map[string]any) []*ValidationError {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []*ValidationError
	for _, name := range names {
		fieldType := schema[name]
		value, exists := data[name]

		if !exists || value == nil {
			if _, optional := fieldType.(*OptionalType); optional {
				continue
			}
			errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			continue
		}

		errs = append(errs, rekey(name, value, fieldType.Validate(value))...)
	}
	return errs
}
