package models

type ComplianceVerdict string

const (
	ComplianceCompliant    ComplianceVerdict = "compliant"
	ComplianceNonCompliant ComplianceVerdict = "non-compliant"
	ComplianceUnknown      ComplianceVerdict = "unknown"
)

// ComplianceResult is the advisory verdict of the policy advisor. It is
// attached to a transaction at approval time as metadata and never gates
// the transition.
type ComplianceResult struct {
	Verdict ComplianceVerdict `json:"result"`
	Reason  string            `json:"reason"`
}
