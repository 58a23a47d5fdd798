package llmstream

import (
	"strings"

	"github.com/tidwall/gjson"
)

// reasoningMarker stands in for encrypted reasoning payloads whose content
// cannot be shown. Rendered verbatim rather than suppressed.
const reasoningMarker = "[Reasoning content]"

// redactedPayload is the provider-side placeholder for reasoning payloads
// that were stripped upstream; it contributes nothing.
const redactedPayload = "[REDACTED]"

// ReasoningText extracts thinking/reasoning content from a delta or message
// node. Extraction priority, first match wins:
//
//  1. a simple string "reasoning" field
//  2. a "reasoning_details" array, where "reasoning.text" entries contribute
//     their text, "reasoning.summary" entries their summary,
//     "reasoning.encrypted" entries a literal marker (only when the payload
//     is present and not "[REDACTED]"), and any other entry shape
//     contributes text or summary if present
//
// Contributing strings are joined with "\n". ok is false when the node
// carries no reasoning content at all.
func ReasoningText(node gjson.Result) (text string, ok bool) {
	if r := node.Get("reasoning"); r.Type == gjson.String && r.String() != "" {
		return r.String(), true
	}

	details := node.Get("reasoning_details")
	if !details.IsArray() {
		return "", false
	}

	var parts []string
	details.ForEach(func(_, detail gjson.Result) bool {
		switch detail.Get("type").String() {
		case "reasoning.text":
			if t := detail.Get("text").String(); t != "" {
				parts = append(parts, t)
			}
		case "reasoning.summary":
			if s := detail.Get("summary").String(); s != "" {
				parts = append(parts, s)
			}
		case "reasoning.encrypted":
			data := detail.Get("data").String()
			if data != "" && data != redactedPayload {
				parts = append(parts, reasoningMarker)
			}
		default:
			if t := detail.Get("text").String(); t != "" {
				parts = append(parts, t)
			} else if s := detail.Get("summary").String(); s != "" {
				parts = append(parts, s)
			}
		}
		return true
	})

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}
