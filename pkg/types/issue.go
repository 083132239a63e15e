package types

import "encoding/json"

// Issue is one deviation found by header validation. Issues are collected,
// never returned as errors; Severity separates "stop using this file"
// (SevCritical) from "should review" (SevWarning).
type Issue struct {
	Severity Severity
	Message  string
	Details  string // Optional free-text context
	Fix      Fix    // nil when the issue is not remediable
}

// FixType returns the fix type offered for the issue, if any.
func (i Issue) FixType() (FixType, bool) {
	if i.Fix == nil {
		return 0, false
	}
	return i.Fix.Type(), true
}

// Fixable reports whether the issue carries a proposed fix.
func (i Issue) Fixable() bool {
	return i.Fix != nil
}

type issueJSON struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Details  string   `json:"details,omitempty"`
	Fix      *fixJSON `json:"fix,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (i Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal(issueJSON{
		Severity: i.Severity,
		Message:  i.Message,
		Details:  i.Details,
		Fix:      encodeFix(i.Fix),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Issue) UnmarshalJSON(b []byte) error {
	var raw issueJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fix, err := decodeFix(raw.Fix)
	if err != nil {
		return err
	}
	*i = Issue{
		Severity: raw.Severity,
		Message:  raw.Message,
		Details:  raw.Details,
		Fix:      fix,
	}
	return nil
}
