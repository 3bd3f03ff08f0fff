package domain

// Status is a lead's pipeline stage. The pipeline is ordered: a lead
// typically moves from New toward one of the two terminal stages, but
// transitions are not enforced (any status may be set at any time).
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusProposal    Status = "proposal"
	StatusNegotiation Status = "negotiation"
	StatusClosedWon   Status = "closed_won"
	StatusClosedLost  Status = "closed_lost"
)

// PipelineOrder lists all statuses in pipeline order. Used for stage
// aggregation and for deciding whether a lead has progressed past a stage.
var PipelineOrder = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusProposal,
	StatusNegotiation,
	StatusClosedWon,
	StatusClosedLost,
}

var knownStatuses = map[Status]struct{}{
	StatusNew:         {},
	StatusContacted:   {},
	StatusQualified:   {},
	StatusProposal:    {},
	StatusNegotiation: {},
	StatusClosedWon:   {},
	StatusClosedLost:  {},
}

// IsKnownStatus reports whether the value is a member of the status enum.
func IsKnownStatus(status Status) bool {
	_, ok := knownStatuses[status]
	return ok
}

// ActiveStatuses are the open-pipeline stages counted as "active leads"
// and eligible for the top-leads ranking.
var ActiveStatuses = []Status{StatusQualified, StatusProposal, StatusNegotiation}

// IsActive reports whether the status is one of the active pipeline stages.
func IsActive(status Status) bool {
	for _, s := range ActiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// StageIndex returns the position of a status in the ordered pipeline,
// or -1 for unknown values.
func StageIndex(status Status) int {
	for i, s := range PipelineOrder {
		if s == status {
			return i
		}
	}
	return -1
}
