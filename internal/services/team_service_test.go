package services

import (
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamLifecycle(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := NewTeamService(repositories.NewCompanyRepository(), repositories.NewUserRepository())
	owner := helpers.CreateUser(t, db, "owner")
	colleague := helpers.CreateUser(t, db, "colleague")

	company, err := svc.CreateCompany(db, owner.ID, &dto.CreateCompanyRequest{Name: "Initech"})
	require.NoError(t, err)

	mine, err := svc.ListMyCompanies(db, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	member, err := svc.AddMember(db, owner.ID, company.ID, &dto.AddMemberRequest{Email: colleague.Email, Role: models.TeamRoleViewer})
	require.NoError(t, err)
	assert.Equal(t, colleague.ID, member.UserID)
	assert.False(t, member.IsOwner)

	_, err = svc.AddMember(db, owner.ID, company.ID, &dto.AddMemberRequest{Email: colleague.Email, Role: models.TeamRoleViewer})
	assert.ErrorIs(t, err, apperrors.ErrMemberAlreadyExists)

	_, err = svc.AddMember(db, colleague.ID, company.ID, &dto.AddMemberRequest{Email: "x@test.local", Role: models.TeamRoleViewer})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	require.NoError(t, svc.UpdateMemberRole(db, owner.ID, company.ID, colleague.ID, models.TeamRoleRecruiter))
	assert.ErrorIs(t, svc.UpdateMemberRole(db, owner.ID, company.ID, owner.ID, models.TeamRoleViewer), apperrors.ErrCannotModifyOwner)
	assert.ErrorIs(t, svc.RemoveMember(db, owner.ID, company.ID, owner.ID), apperrors.ErrCannotModifyOwner)

	members, err := svc.ListMembers(db, colleague.ID, company.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, svc.RemoveMember(db, owner.ID, company.ID, colleague.ID))
	_, err = svc.ListMembers(db, colleague.ID, company.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotCompanyMember)
}

func TestAddMember_UnknownEmail(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := NewTeamService(repositories.NewCompanyRepository(), repositories.NewUserRepository())
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)

	_, err := svc.AddMember(db, owner.ID, company.ID, &dto.AddMemberRequest{Email: "nobody@test.local", Role: models.TeamRoleViewer})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
