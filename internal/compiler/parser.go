package compiler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	buttonSchema = schema.Schema{
		"text":          schema.String(),
		"url":           schema.Optional(schema.String()),
		"callback_data": schema.Optional(schema.String()),
	}
	messageSchema = schema.Schema{
		"text":    schema.String(),
		"buttons": schema.Optional(schema.Slice(schema.Slice(schema.Object(buttonSchema)))),
	}
	blockSchema = schema.Schema{
		"id":       schema.String(),
		"trigger":  schema.String(),
		"messages": schema.Slice(schema.Object(messageSchema)),
	}
)

// Parser converts a raw script document into script blocks.
// It accepts JSON or YAML holding either a list of blocks or an object with a
// "blocks" list, optionally wrapped in a markdown code fence.
type Parser struct {
	// MaxBytes caps the raw input. Zero means DefaultMaxScriptBytes.
	MaxBytes int
}

// NewParser creates a new parser instance.
func NewParser(maxBytes int) *Parser {
	return &Parser{MaxBytes: maxBytes}
}

// Parse decodes data. Structural problems are reported together as an error
// wrapping domain.ErrMalformedScript; blank input returns domain.ErrEmptyScript.
// Parse checks shape only; content rules are applied by Compile.
func (p *Parser) Parse(data []byte) ([]domain.ScriptBlock, error) {
	text, err := Sanitize(string(data), p.MaxBytes)
	if err != nil {
		return nil, err
	}

	text = stripFence(strings.TrimSpace(text))
	if text == "" {
		return nil, domain.ErrEmptyScript
	}

	var raw any
	if text[0] == '[' || text[0] == '{' {
		err = json.Unmarshal([]byte(text), &raw)
	} else {
		err = yaml.Unmarshal([]byte(text), &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode document: %w", domain.ErrMalformedScript, err)
	}

	items, err := blockList(raw)
	if err != nil {
		return nil, err
	}
	if err := checkShape(items); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedScript, err)
	}

	blocks := make([]domain.ScriptBlock, 0, len(items))
	if err := mapstructure.Decode(items, &blocks); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedScript, err)
	}
	return blocks, nil
}

func blockList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, domain.ErrEmptyScript
	case []any:
		return v, nil
	case map[string]any:
		inner, ok := v["blocks"]
		if !ok {
			return nil, fmt.Errorf("%w: object document must have a \"blocks\" list", domain.ErrMalformedScript)
		}
		if inner == nil {
			return []any{}, nil
		}
		list, ok := inner.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: \"blocks\" must be a list, got %T", domain.ErrMalformedScript, inner)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: expected a list of blocks, got %T", domain.ErrMalformedScript, raw)
	}
}

// checkShape validates every raw block and reports all failures keyed by path.
func checkShape(items []any) error {
	var errs []error
	for i, item := range items {
		prefix := fmt.Sprintf("blocks[%d]", i)
		m, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, &schema.ValidationError{Key: prefix, Reason: "expected object", Value: item})
			continue
		}
		for _, e := range schema.ValidationErrors(schema.Validate(blockSchema, m)) {
			ve, ok := e.(*schema.ValidationError)
			if !ok {
				errs = append(errs, e)
				continue
			}
			errs = append(errs, &schema.ValidationError{Key: prefix + "." + ve.Key, Reason: ve.Reason, Value: ve.Value})
		}
	}
	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}
	return nil
}

// stripFence removes a surrounding ``` fence (with optional language tag).
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	body := strings.TrimSuffix(text[3:], "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return strings.TrimSpace(body)
}
