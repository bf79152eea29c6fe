package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories
// =========================================================================

// ErrNotFound converts a repository "not found" into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Auth & team
// =========================================================================

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrNotCompanyMember = New(
	CodeForbidden,
	"team",
	"You are not a member of this company",
	http.StatusForbidden,
)

var ErrCannotModifyOwner = New(
	CodeForbidden,
	"team",
	"The company owner cannot be demoted or removed",
	http.StatusForbidden,
)

var ErrMemberAlreadyExists = New(
	CodeAlreadyExists,
	"team",
	"User is already a member of this company",
	http.StatusConflict,
)

// =========================================================================
// Applications
// =========================================================================

var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

var ErrTerminalStatus = New(
	CodeInvalidStatus,
	"application",
	"Application is in a terminal state and can no longer change",
	http.StatusConflict,
)

var ErrInvalidTransition = New(
	CodeInvalidStatus,
	"application",
	"Status transition is not allowed",
	http.StatusConflict,
)

var ErrStatusConflict = New(
	CodeConflict,
	"application",
	"Application status was changed by someone else, reload and retry",
	http.StatusConflict,
)

var ErrAlreadyApplied = New(
	CodeAlreadyExists,
	"application",
	"You have already applied to this job",
	http.StatusConflict,
)

var ErrCannotApplyToOwnJob = New(
	CodeInvalidOperation,
	"application",
	"You cannot apply to a job posted by your own company",
	http.StatusBadRequest,
)

// ErrInterviewStatusNotUpdated is the partial-failure signal of interview
// scheduling: the interview row exists but the application status was not moved.
var ErrInterviewStatusNotUpdated = New(
	CodePartialFailure,
	"interview",
	"Interview was scheduled but the application status could not be updated",
	http.StatusMultiStatus,
)

var ErrInterviewInPast = New(
	CodeValidationFailed,
	"interview",
	"Interview time must not be in the past",
	http.StatusBadRequest,
)

// =========================================================================
// Jobs
// =========================================================================

var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job not found",
	http.StatusNotFound,
)

var ErrJobNotOpen = New(
	CodeInvalidStatus,
	"job",
	"Job is not open for applications",
	http.StatusConflict,
)

var ErrInvalidJobStatus = New(
	CodeInvalidStatus,
	"job",
	"Operation not allowed for the current job status",
	http.StatusConflict,
)

// =========================================================================
// Credits & billing
// =========================================================================

var ErrInsufficientCredits = New(
	CodeInsufficientCredits,
	"credits",
	"Not enough credits",
	http.StatusPaymentRequired,
)

var ErrInvalidCreditAmount = New(
	CodeValidationFailed,
	"credits",
	"Credit amount must be positive",
	http.StatusBadRequest,
)

var ErrPlanRequired = New(
	CodePlanRequired,
	"subscription",
	"Your current plan does not include this feature",
	http.StatusPaymentRequired,
)

var ErrCompanyNotFound = New(
	CodeNotFound,
	"company",
	"Company not found",
	http.StatusNotFound,
)

var ErrPaymentProvider = New(
	CodeExternalServiceError,
	"payment",
	"Payment provider error",
	http.StatusServiceUnavailable,
)

var ErrInvalidWebhookSignature = New(
	CodeInvalidToken,
	"payment",
	"Invalid webhook signature",
	http.StatusBadRequest,
)

var ErrWebhookPayloadTooLarge = New(
	CodeValidationFailed,
	"payment",
	"Webhook payload too large",
	http.StatusRequestEntityTooLarge,
)
