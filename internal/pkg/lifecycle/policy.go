package lifecycle

import (
	"fmt"
	"strings"
)

// ApprovalPolicy decides whether records that were never calculated may be approved.
type ApprovalPolicy string

const (
	// ApprovalPermissive allows approving draft records (legacy fast-track).
	ApprovalPermissive ApprovalPolicy = "permissive"
	// ApprovalStrict only allows approving calculated records.
	ApprovalStrict ApprovalPolicy = "strict"
)

func ParseApprovalPolicy(s string) (ApprovalPolicy, error) {
	switch ApprovalPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ApprovalPermissive:
		return ApprovalPermissive, nil
	case ApprovalStrict:
		return ApprovalStrict, nil
	}
	return "", fmt.Errorf("unknown approval policy %q", s)
}

func (p ApprovalPolicy) AllowsUncalculated() bool {
	return p != ApprovalStrict
}

// Action is a lifecycle transition request shared by salaries and payrolls.
type Action string

const (
	ActionCalculate Action = "calculate"
	ActionApprove   Action = "approve"
	ActionMarkPaid  Action = "mark_paid"
	ActionCancel    Action = "cancel"
	ActionReopen    Action = "reopen"
	ActionEdit      Action = "edit"
	ActionDelete    Action = "delete"
)
