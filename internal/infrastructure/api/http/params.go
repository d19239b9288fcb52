package http

const (
	AwardIDParam       = "awardID"
	TransactionIDParam = "transactionID"
	SubawardIDParam    = "subawardID"
)

// UserIDHeader carries the acting user's identity. Authentication itself is
// an external collaborator; the service only resolves the id to a role.
const UserIDHeader = "X-User-ID"
