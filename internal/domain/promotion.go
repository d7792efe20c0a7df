package domain

import "strings"

// Response is the tri-state answer recorded for a promotion.
type Response string

const (
	ResponseYes     Response = "Yes"
	ResponseNo      Response = "No"
	ResponseUnknown Response = "Unknown"
)

// ParseResponse folds free-form source values into the tri-state enum.
// Anything that is not recognisably affirmative or negative is Unknown.
func ParseResponse(raw string) Response {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true":
		return ResponseYes
	case "no", "n", "false":
		return ResponseNo
	default:
		return ResponseUnknown
	}
}

// Promotion is a promotion sent to a person, linked through a contact key.
// ClientEmail and Phone may be back-filled during cross-reference resolution.
type Promotion struct {
	ID          int
	ClientEmail *string
	Phone       *string
	Promotion   string
	Responded   Response
}
