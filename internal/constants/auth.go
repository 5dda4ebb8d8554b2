package constants

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Capabilities
const (
	CapSubmit  = "submit"
	CapApprove = "approve"
	CapReject  = "reject"
	CapViewOwn = "view_own"
	CapViewAll = "view_all"
)
