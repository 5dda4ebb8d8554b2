package constants

const (
	// Sequence IDs
	SequencePrefix   = "TID"
	SequenceMinWidth = 3

	// Defaults
	DefaultPayee = "-"

	// Date Layout
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

const (
	// MaxNameLen bounds requester and user names
	MaxNameLen = 64
)
