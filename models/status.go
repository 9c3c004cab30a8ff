// models/status.go
package models

// AccountStatus is the lifecycle stage of a registered account.
type AccountStatus string

const (
	StatusUnverified      AccountStatus = "unverified"
	StatusPendingApproval AccountStatus = "pending_approval"
	StatusActive          AccountStatus = "active"
	StatusRejected        AccountStatus = "rejected"
)

// Valid reports whether s is one of the known account statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusUnverified, StatusPendingApproval, StatusActive, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether the from→to status change is legal.
// unverified → pending_approval (OTP verification)
// pending_approval → active | rejected (admin decision)
// rejected and active are terminal for this flow.
func CanTransition(from, to AccountStatus) bool {
	switch from {
	case StatusUnverified:
		return to == StatusPendingApproval
	case StatusPendingApproval:
		return to == StatusActive || to == StatusRejected
	case StatusActive, StatusRejected:
		return false
	}
	return false
}
