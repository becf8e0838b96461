package schema

import (
	"fmt"
	"testing"
)

func TestScalarTypes(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		value   any
		wantErr bool
	}{
		{"string ok", String(), "hello", false},
		{"string empty ok", String(), "", false},
		{"string rejects int", String(), 42, true},
		{"string rejects nil", String(), nil, true},
		{"non-empty ok", NonEmpty(), "/start", false},
		{"non-empty blank", NonEmpty(), "   ", true},
		{"non-empty rejects bool", NonEmpty(), true, true},
		{"int ok", Int(), 42, false},
		{"int64 ok", Int(), int64(42), false},
		{"int whole float", Int(), float64(2), false},
		{"int fractional float", Int(), 2.5, true},
		{"int rejects string", Int(), "2", true},
		{"bool ok", Bool(), false, false},
		{"bool rejects string", Bool(), "true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.typ.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("%s.Validate(%v) error = %v, wantErr %v", tt.typ.Name(), tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestTypeNames(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{String(), "string"},
		{NonEmpty(), "string!"},
		{Slice(Slice(Object(nil))), "[[object]]"},
		{Optional(Int()), "int?"},
		{Custom("telegram_url", func(any) error { return nil }), "telegram_url"},
	}
	for _, tt := range tests {
		if got := tt.typ.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestSliceType_ReportsIndexedKeys(t *testing.T) {
	typ := Slice(String())

	if err := typ.Validate([]any{"a", "b"}); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if err := typ.Validate("not a list"); err == nil {
		t.Fatal("Validate() should reject non-list values")
	}

	err := Validate(Schema{"tags": typ}, map[string]any{"tags": []any{"a", 1, "c", false}})
	errs := ValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), err)
	}
	if key := errs[0].(*ValidationError).Key; key != "tags[1]" {
		t.Errorf("first key = %q, want tags[1]", key)
	}
	if key := errs[1].(*ValidationError).Key; key != "tags[3]" {
		t.Errorf("second key = %q, want tags[3]", key)
	}
}

func TestObjectType_NestedPaths(t *testing.T) {
	button := Schema{
		"text": NonEmpty(),
		"url":  Optional(String()),
	}
	message := Schema{
		"text":    String(),
		"buttons": Optional(Slice(Slice(Object(button)))),
	}

	data := map[string]any{
		"messages": []any{
			map[string]any{"text": "ok"},
			map[string]any{
				"text": "menu",
				"buttons": []any{
					[]any{map[string]any{"text": "Docs", "url": "https://example.com"}},
					[]any{map[string]any{"text": ""}, map[string]any{"url": 5}},
				},
			},
		},
	}

	err := Validate(Schema{"messages": Slice(Object(message))}, data)
	errs := ValidationErrors(err)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), err)
	}

	want := []string{
		"messages[1].buttons[1][0].text",
		"messages[1].buttons[1][1].text",
		"messages[1].buttons[1][1].url",
	}
	for i, w := range want {
		if got := errs[i].(*ValidationError).Key; got != w {
			t.Errorf("errs[%d].Key = %q, want %q", i, got, w)
		}
	}
}

func TestObjectType_RejectsNonMap(t *testing.T) {
	if err := Object(Schema{}).Validate([]any{}); err == nil {
		t.Fatal("Validate() should reject a list where an object is expected")
	}
}

func TestCustomType(t *testing.T) {
	maxLen := Custom("short", func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string")
		}
		if len(s) > 4 {
			return fmt.Errorf("longer than 4 bytes")
		}
		return nil
	})

	if err := maxLen.Validate("abcd"); err != nil {
		t.Errorf("Validate(abcd) error = %v", err)
	}
	if err := maxLen.Validate("abcde"); err == nil {
		t.Error("Validate(abcde) should fail")
	}
}
