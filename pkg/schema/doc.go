// Package schema provides a small structural type system for loosely typed data.
//
// Raw script documents and tool arguments arrive as map[string]any (decoded from
// JSON or YAML). A Schema maps field names to types and reports every mismatch at
// once, so a caller can show the full list of problems instead of the first one.
//
// Basic usage:
//
//	button := schema.Schema{
//	    "text":          schema.NonEmpty(),
//	    "url":           schema.Optional(schema.String()),
//	    "callback_data": schema.Optional(schema.String()),
//	}
//
//	block := schema.Schema{
//	    "id":      schema.NonEmpty(),
//	    "trigger": schema.NonEmpty(),
//	    "messages": schema.Optional(schema.Slice(schema.Object(schema.Schema{
//	        "text":    schema.String(),
//	        "buttons": schema.Optional(schema.Slice(schema.Slice(schema.Object(button)))),
//	    }))),
//	}
//
//	if err := schema.Validate(block, raw); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        // e.g. field "messages[0].buttons[1][0].text": required
//	    }
//	}
//
// Nested failures are flattened into a single AggregateError whose keys carry the
// full path to the offending value. Fields are visited in sorted order, so the
// error list is stable across runs.
package schema
