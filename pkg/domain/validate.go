package domain

import (
	"fmt"
	"strings"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/schema"
)

// MaxCallbackDataBytes is Telegram's limit for inline button callback data.
const MaxCallbackDataBytes = 64

// ValidateScript checks the fields a block cannot compile without and reports all
// problems at once as a *schema.AggregateError. Keys are paths such as
// "blocks[2].messages[0].buttons[1][0].text".
//
// Telegram payload limits are not checked here; see ButtonIssues.
func ValidateScript(blocks []ScriptBlock) error {
	var errs []error
	fail := func(key, reason string, value any) {
		errs = append(errs, &schema.ValidationError{Key: key, Reason: reason, Value: value})
	}

	seen := make(map[string]int, len(blocks))
	for bi, block := range blocks {
		prefix := fmt.Sprintf("blocks[%d]", bi)

		if isBlank(block.ID) {
			fail(prefix+".id", "required", nil)
		} else if first, dup := seen[block.ID]; dup {
			fail(prefix+".id", fmt.Sprintf("duplicate of blocks[%d].id %q", first, block.ID), nil)
		} else {
			seen[block.ID] = bi
		}

		if isBlank(block.Trigger) {
			fail(prefix+".trigger", "required", nil)
		}

		for mi, msg := range block.Messages {
			msgKey := fmt.Sprintf("%s.messages[%d]", prefix, mi)
			if isBlank(msg.Text) {
				fail(msgKey+".text", "required", nil)
			}
			for ri, row := range msg.Buttons {
				for ci, btn := range row {
					if isBlank(btn.Text) {
						fail(fmt.Sprintf("%s.buttons[%d][%d].text", msgKey, ri, ci), "required", nil)
					}
				}
			}
		}
	}

	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}
	return nil
}

// ButtonIssues lists keyboard problems Telegram is likely to reject: empty rows,
// buttons with neither or both of url and callback_data, and callback data over
// MaxCallbackDataBytes. They are passed through to the workflow unchanged.
func (b ScriptBlock) ButtonIssues() []string {
	var issues []string
	for mi, msg := range b.Messages {
		for ri, row := range msg.Buttons {
			rowKey := fmt.Sprintf("messages[%d].buttons[%d]", mi, ri)
			if len(row) == 0 {
				issues = append(issues, rowKey+": empty button row")
			}
			for ci, btn := range row {
				key := fmt.Sprintf("%s[%d]", rowKey, ci)
				hasURL := !isBlank(btn.URL)
				hasCallback := btn.CallbackData != ""
				switch {
				case hasURL && hasCallback:
					issues = append(issues, key+": both url and callback_data set")
				case !hasURL && !hasCallback:
					issues = append(issues, key+": neither url nor callback_data set")
				}
				if len(btn.CallbackData) > MaxCallbackDataBytes {
					issues = append(issues, fmt.Sprintf("%s: callback_data longer than %d bytes", key, MaxCallbackDataBytes))
				}
			}
		}
	}
	return issues
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
