// internal/payloadcheck/models.go
package payloadcheck

import (
	"encoding/json"

	"therapy-recommendations/internal/common/errors"
)

// Report is the outcome of checking one payload. Normalized holds the canonical
// re-encoding and is set only when the payload is valid.
type Report struct {
	Source     string             `json:"source,omitempty"`
	Kind       string             `json:"kind"`
	Valid      bool               `json:"valid"`
	ErrorCode  string             `json:"errorCode,omitempty"`
	Category   string             `json:"category,omitempty"`
	Retryable  bool               `json:"retryable,omitempty"`
	Message    string             `json:"message,omitempty"`
	Violations []errors.Violation `json:"violations,omitempty"`
	Normalized json.RawMessage    `json:"normalized,omitempty"`
}

// Summary aggregates a batch of reports.
type Summary struct {
	Checked  int      `json:"checked"`
	Valid    int      `json:"valid"`
	Rejected int      `json:"rejected"`
	Reports  []Report `json:"reports"`
}

func (s *Summary) add(r Report) {
	s.Checked++
	if r.Valid {
		s.Valid++
	} else {
		s.Rejected++
	}
	s.Reports = append(s.Reports, r)
}
