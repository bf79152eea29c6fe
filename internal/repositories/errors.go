package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrCompanyNotFound       = errors.New("company not found")
	ErrTeamMemberNotFound    = errors.New("team member not found")
	ErrTeamMemberExists      = errors.New("team member already exists")
	ErrJobNotFound           = errors.New("job not found")
	ErrApplicationNotFound   = errors.New("application not found")
	ErrApplicationExists     = errors.New("application already exists for this job")
	ErrStatusChanged         = errors.New("application status changed concurrently")
	ErrInterviewNotFound     = errors.New("interview not found")
	ErrBalanceNotFound       = errors.New("credit balance not found")
	ErrInsufficientCredits   = errors.New("insufficient credits")
	ErrCreditRefDuplicate    = errors.New("external reference already credited")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrBillingEventDuplicate = errors.New("billing event already recorded")
)

const pgUniqueViolation = "23505"

// isUniqueViolation recognises duplicate-key errors from postgres and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
