package users

import (
	"context"
	"net/url"
	"testing"

	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/app/services/core/masking"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/dto/requests"
	"medblock-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newUser(role string, status models.VerificationStatus) *models.User {
	return &models.User{
		ID:                     primitive.NewObjectID(),
		Email:                  role + "@example.com",
		FirstName:              "Test",
		LastName:               role,
		PhoneNumber:            "+254712345678",
		Role:                   role,
		DepartmentAffiliations: []string{"d1"},
		FacilityAffiliations:   []string{},
		Verification:           models.ProfessionalVerification{Status: status},
		IsActive:               true,
		Version:                1,
	}
}

type usersFixture struct {
	usecase *userUsecase
	repo    *memoryUserRepository
	audit   *recordingAudit
	admin   *models.User
	nurse   *models.User
	doctor  *models.User
}

func newUsersFixture() *usersFixture {
	admin := newUser(constvars.RoleAdmin, models.VerificationUnsubmitted)
	nurse := newUser(constvars.RoleNurse, models.VerificationVerified)
	doctor := newUser(constvars.RoleDoctor, models.VerificationVerified)
	repo := newMemoryUserRepository(admin, nurse, doctor)
	audit := &recordingAudit{}

	return &usersFixture{
		usecase: NewUserUsecase(repo, newTestOrchestrator(audit), zap.NewNop()).(*userUsecase),
		repo:    repo,
		audit:   audit,
		admin:   admin,
		nurse:   nurse,
		doctor:  doctor,
	}
}

func TestListUsers(t *testing.T) {
	f := newUsersFixture()

	result, err := f.usecase.List(identityContext(f.admin), url.Values{"role": {"Nurse"}})
	require.NoError(t, err)
	assert.Len(t, result.Records, 3)
	assert.Equal(t, int64(3), result.Pagination.Total)
	assert.Equal(t, []contracts.Predicate{
		NotDeleted,
		{Field: "role", Operator: contracts.OpEq, Value: constvars.RoleNurse},
	}, f.repo.lastSpec.Predicates)

	for _, record := range result.Records {
		assert.NotContains(t, record, "passwordHash")
	}

	_, err = f.usecase.List(identityContext(f.nurse), url.Values{})
	assert.True(t, exceptions.HasCode(err, exceptions.CodeForbidden))
}

func TestGetUser(t *testing.T) {
	f := newUsersFixture()

	t.Run("self view masks by role", func(t *testing.T) {
		view, err := f.usecase.Me(identityContext(f.nurse))
		require.NoError(t, err)
		assert.Equal(t, f.nurse.IDHex(), view["id"])
		assert.Equal(t, "Test nurse", view["fullName"])
		assert.Equal(t, "nu***@example.com", view["email"])
	})

	t.Run("admin sees raw contact details", func(t *testing.T) {
		view, err := f.usecase.Get(identityContext(f.admin), f.nurse.IDHex())
		require.NoError(t, err)
		assert.Equal(t, "nurse@example.com", view["email"])
	})

	t.Run("other account is forbidden", func(t *testing.T) {
		_, err := f.usecase.Get(identityContext(f.nurse), f.doctor.IDHex())
		customErr, ok := exceptions.AsCustomError(err)
		require.True(t, ok)
		assert.Equal(t, contracts.ReasonNotResourceOwner, customErr.Reason)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := f.usecase.Get(identityContext(f.admin), primitive.NewObjectID().Hex())
		assert.True(t, exceptions.HasCode(err, exceptions.CodeNotFound))
	})
}

func TestUpdateUser(t *testing.T) {
	f := newUsersFixture()
	name := "Grace"

	view, err := f.usecase.Update(identityContext(f.nurse), f.nurse.IDHex(), &requests.UpdateUser{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grace", view["firstName"])
	assert.Equal(t, int64(2), f.nurse.Version)
	assert.Equal(t, constvars.RoleNurse, f.nurse.Role)

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "users.update.succeeded", f.audit.events[0].Name)
}

func TestUpdateUserStaleWrite(t *testing.T) {
	f := newUsersFixture()
	name := "Grace"

	_, err := f.usecase.mutate(identityContext(f.admin), contracts.ActionUpdate, f.nurse.IDHex(),
		func(ctx context.Context, user *models.User, identity *models.Identity) (map[string]interface{}, error) {
			// a concurrent writer lands between load and save
			f.nurse.Version++
			return map[string]interface{}{"firstName": name}, nil
		})
	assert.True(t, exceptions.HasCode(err, exceptions.CodeStaleWrite))
	assert.Equal(t, "Test", f.nurse.FirstName)
	assert.Equal(t, "users.update.failed", f.audit.events[len(f.audit.events)-1].Name)
}

func TestChangeRole(t *testing.T) {
	t.Run("resets verification on a new role", func(t *testing.T) {
		f := newUsersFixture()
		view, err := f.usecase.ChangeRole(identityContext(f.admin), f.nurse.IDHex(), &requests.ChangeRole{
			Role: constvars.RoleDoctor, DepartmentAffiliations: []string{"d2"},
		})
		require.NoError(t, err)
		assert.Equal(t, constvars.RoleDoctor, view["role"])
		assert.Equal(t, models.VerificationUnsubmitted, f.nurse.Verification.Status)
		assert.Equal(t, []string{"d2"}, f.nurse.DepartmentAffiliations)
		assert.Equal(t, []string{}, f.nurse.FacilityAffiliations)
	})

	t.Run("same role keeps verification", func(t *testing.T) {
		f := newUsersFixture()
		_, err := f.usecase.ChangeRole(identityContext(f.admin), f.nurse.IDHex(), &requests.ChangeRole{Role: constvars.RoleNurse})
		require.NoError(t, err)
		assert.Equal(t, models.VerificationVerified, f.nurse.Verification.Status)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		f := newUsersFixture()
		_, err := f.usecase.ChangeRole(identityContext(f.admin), f.admin.IDHex(), &requests.ChangeRole{Role: constvars.RoleDoctor})
		customErr, ok := exceptions.AsCustomError(err)
		require.True(t, ok)
		assert.Equal(t, contracts.ReasonSelfTargetForbidden, customErr.Reason)
		assert.Equal(t, constvars.RoleAdmin, f.admin.Role)
	})
}

func TestSetActiveAndDelete(t *testing.T) {
	f := newUsersFixture()

	view, err := f.usecase.SetActive(identityContext(f.admin), f.doctor.IDHex(), false)
	require.NoError(t, err)
	assert.Equal(t, false, view["isActive"])
	assert.Equal(t, "users.deactivate.succeeded", f.audit.events[len(f.audit.events)-1].Name)

	_, err = f.usecase.SetActive(identityContext(f.admin), f.doctor.IDHex(), true)
	require.NoError(t, err)
	assert.True(t, f.doctor.IsActive)

	require.NoError(t, f.usecase.Delete(identityContext(f.admin), f.doctor.IDHex()))
	assert.True(t, f.doctor.IsDeleted)
	assert.Equal(t, f.admin.IDHex(), f.doctor.DeletedBy)

	_, err = f.usecase.Get(identityContext(f.admin), f.doctor.IDHex())
	assert.True(t, exceptions.HasCode(err, exceptions.CodeNotFound))

	err = f.usecase.Delete(identityContext(f.admin), f.admin.IDHex())
	assert.True(t, exceptions.HasCode(err, exceptions.CodeForbidden))
}

func TestMaskedViewNeverRedactsID(t *testing.T) {
	f := newUsersFixture()
	view, err := f.usecase.Get(identityContext(f.nurse), f.nurse.IDHex())
	require.NoError(t, err)
	assert.NotEqual(t, masking.RedactedValue, view["id"])
	assert.Equal(t, masking.RedactedValue, view["isDeleted"])
}
