package models

type ApplicationStatus string
type TeamRole string
type CreditType string
type CreditReason string
type SubscriptionStatus string
type JobStatus string

const (
	ApplicationStatusApplied     ApplicationStatus = "applied"
	ApplicationStatusViewed      ApplicationStatus = "viewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterview   ApplicationStatus = "interview"
	ApplicationStatusProcessing  ApplicationStatus = "processing"
	ApplicationStatusHired       ApplicationStatus = "hired"
	ApplicationStatusRejected    ApplicationStatus = "rejected"

	TeamRoleAdmin     TeamRole = "admin"
	TeamRoleRecruiter TeamRole = "recruiter"
	TeamRoleViewer    TeamRole = "viewer"

	CreditTypeJobPost      CreditType = "job_post"
	CreditTypeTalentSearch CreditType = "talent_search"

	CreditReasonUsed            CreditReason = "used"
	CreditReasonPurchase        CreditReason = "purchase"
	CreditReasonMonthlyGrant    CreditReason = "monthly_grant"
	CreditReasonAdminAdjustment CreditReason = "admin_adjustment"

	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"

	JobStatusDraft  JobStatus = "draft"
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// pipelineOrder is the forward order of the hiring pipeline. Rejected sits
// outside it: it is reachable from every non-terminal state.
var pipelineOrder = map[ApplicationStatus]int{
	ApplicationStatusApplied:     1,
	ApplicationStatusViewed:      2,
	ApplicationStatusShortlisted: 3,
	ApplicationStatusInterview:   4,
	ApplicationStatusProcessing:  5,
	ApplicationStatusHired:       6,
}

func (s ApplicationStatus) IsValid() bool {
	_, ok := pipelineOrder[s]
	return ok || s == ApplicationStatusRejected
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusHired || s == ApplicationStatusRejected
}

// CanTransitionTo reports whether target is a legal next status.
// Hired is only reachable once the candidate has been interviewed.
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == ApplicationStatusRejected {
		return true
	}
	if target == ApplicationStatusHired {
		return s == ApplicationStatusInterview || s == ApplicationStatusProcessing
	}
	return pipelineOrder[target] > pipelineOrder[s]
}

func AllApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusApplied,
		ApplicationStatusViewed,
		ApplicationStatusShortlisted,
		ApplicationStatusInterview,
		ApplicationStatusProcessing,
		ApplicationStatusHired,
		ApplicationStatusRejected,
	}
}

func (r TeamRole) IsValid() bool {
	switch r {
	case TeamRoleAdmin, TeamRoleRecruiter, TeamRoleViewer:
		return true
	}
	return false
}

func (t CreditType) IsValid() bool {
	return t == CreditTypeJobPost || t == CreditTypeTalentSearch
}

// Column is the credit_balances counter backing this credit type.
func (t CreditType) Column() string {
	switch t {
	case CreditTypeJobPost:
		return "job_post_credits"
	case CreditTypeTalentSearch:
		return "talent_search_credits"
	}
	return ""
}
