package dataset

// RejectionReason classifies why a source row was dropped during loading.
type RejectionReason string

const (
	// RejectUnknownCountry covers labels that resolve to no registry member.
	RejectUnknownCountry RejectionReason = "unknown_country"
	// RejectUnknownIndicator covers labels outside the family's catalog.
	RejectUnknownIndicator RejectionReason = "unknown_indicator"
	// RejectMalformedRow covers unparsable years, values, or bounds.
	RejectMalformedRow RejectionReason = "malformed_row"
	// RejectDuplicateRecord marks the displaced row when a later row wins
	// the same uniqueness key.
	RejectDuplicateRecord RejectionReason = "duplicate_record"
)

// Rejection records a dropped row with enough context for the caller to
// audit the load. Rejections are data, not errors: a load that rejects
// rows still succeeds.
type Rejection struct {
	Reason RejectionReason `json:"reason"`
	Row    int             `json:"row"`   // 1-based position in the source batch
	Label  string          `json:"label"` // the offending raw label or field value
	Detail string          `json:"detail,omitempty"`
}

// CountByReason tallies rejections per reason for logging and metrics.
func CountByReason(rejections []Rejection) map[RejectionReason]int {
	if len(rejections) == 0 {
		return nil
	}
	counts := make(map[RejectionReason]int, 4)
	for _, r := range rejections {
		counts[r.Reason]++
	}
	return counts
}
