package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-service/internal/domain/user"
	pkgerrors "user-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) ExistsByUserName(ctx context.Context, userName, excludeID string) (bool, error) {
	args := m.Called(ctx, userName, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// WithinTransaction records the call and runs fn against the mock itself.
func (m *MockRepository) WithinTransaction(ctx context.Context, fn func(repo Repository) error) error {
	m.Called(ctx)
	return fn(m)
}

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

// Test helper to build a usecase with a mock repo, a fixed clock and a fixed id
func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	uc := New(mockRepo, zaptest.NewLogger(t))
	uc.now = func() time.Time { return fixedNow }
	uc.newID = func() string { return "3f1c8a52-6a0e-4b8f-9a43-0d6f1f3b7c21" }
	return uc, mockRepo
}

func validCreateRequest() *CreateUserRequest {
	return &CreateUserRequest{
		Name:      "John",
		Email:     "john@gmail.com",
		Role:      "Admin",
		UserName:  "john_1",
		CreatedBy: "system",
	}
}

func validUpdateRequest(id string) *UpdateUserRequest {
	return &UpdateUserRequest{
		ID:        id,
		Name:      "John",
		Email:     "john@gmail.com",
		Role:      "Customer",
		UserName:  "john_1",
		UpdatedBy: "admin_2",
	}
}

func existingUser(id string) *domain.User {
	email := "john@gmail.com"
	created := fixedNow.Add(-24 * time.Hour)
	return &domain.User{
		ID:          id,
		Name:        "John",
		Email:       &email,
		Role:        domain.RoleAdmin,
		UserName:    "john_1",
		CreatedBy:   "seed",
		UpdatedBy:   "seed",
		CreatedDate: created,
		UpdatedDate: created,
	}
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	req := validCreateRequest()

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("ExistsByUserName", ctx, "john_1", "").Return(false, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == "3f1c8a52-6a0e-4b8f-9a43-0d6f1f3b7c21" &&
			u.Name == "John" &&
			u.Email != nil && *u.Email == "john@gmail.com" &&
			u.Role == domain.RoleAdmin &&
			u.UserName == "john_1" &&
			u.CreatedBy == "system" && u.UpdatedBy == "system" &&
			u.CreatedDate.Equal(fixedNow) && u.UpdatedDate.Equal(fixedNow)
	})).Return(nil)

	resp, err := uc.CreateUser(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "3f1c8a52-6a0e-4b8f-9a43-0d6f1f3b7c21", resp.ID)
	assert.Contains(t, resp.Message, "created successfully")
	assert.Contains(t, resp.Message, resp.ID)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_BlankEmailStoredAsAbsent(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	req := validCreateRequest()
	req.Email = "   "

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("ExistsByUserName", ctx, "john_1", "").Return(false, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == nil
	})).Return(nil)

	_, err := uc.CreateUser(ctx, req)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_RoleCaseInsensitive(t *testing.T) {
	for _, role := range []string{"admin", "Admin", "ADMIN"} {
		t.Run(role, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)
			ctx := context.Background()
			req := validCreateRequest()
			req.Role = role

			mockRepo.On("WithinTransaction", ctx).Return()
			mockRepo.On("ExistsByUserName", ctx, "john_1", "").Return(false, nil)
			mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
				return u.Role == domain.RoleAdmin
			})).Return(nil)

			_, err := uc.CreateUser(ctx, req)

			require.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCreateUser_NilRequest(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	resp, err := uc.CreateUser(context.Background(), nil)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInvalid, pkgerrors.KindOf(err))
	assert.Contains(t, err.Error(), "create request is empty")
	mockRepo.AssertNotCalled(t, "WithinTransaction", mock.Anything)
}

func TestCreateUser_ValidationError_NamesField(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	req := validCreateRequest()
	req.Name = "invalid()*"

	resp, err := uc.CreateUser(context.Background(), req)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInvalid, pkgerrors.KindOf(err))
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "invalid()*")
	mockRepo.AssertNotCalled(t, "WithinTransaction", mock.Anything)
}

func TestCreateUser_DuplicateUserName(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	req := validCreateRequest()

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("ExistsByUserName", ctx, "john_1", "").Return(true, nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindConflict, pkgerrors.KindOf(err))
	assert.Contains(t, err.Error(), "duplicate userName")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	req := validCreateRequest()
	req.Role = "invalid"

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("ExistsByUserName", ctx, "john_1", "").Return(false, nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInvalid, pkgerrors.KindOf(err))
	assert.Contains(t, err.Error(), "role")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_LateUniqueViolationIsConflict(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("ExistsByUserName", ctx, "john_1", "").Return(false, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(pkgerrors.NewAlreadyExistsError("user", "duplicate userName"))

	_, err := uc.CreateUser(ctx, validCreateRequest())

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindConflict, pkgerrors.KindOf(err))
}

func TestCreateUser_ExistenceCheckFails(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("ExistsByUserName", ctx, "john_1", "").Return(false, errors.New("connection refused"))

	_, err := uc.CreateUser(ctx, validCreateRequest())

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindUnexpected, pkgerrors.KindOf(err))
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	id := "9b2d7e10-1111-4c2a-8f00-5e6d7c8b9a01"
	stored := existingUser(id)
	createdDate := stored.CreatedDate

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("GetByID", ctx, id).Return(stored, nil)
	mockRepo.On("ExistsByUserName", ctx, "john_1", id).Return(false, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == id &&
			u.Role == domain.RoleCustomer &&
			u.UpdatedBy == "admin_2" &&
			u.CreatedBy == "seed" &&
			u.CreatedDate.Equal(createdDate) &&
			u.UpdatedDate.Equal(fixedNow)
	})).Return(nil)

	err := uc.UpdateUser(ctx, validUpdateRequest(id))

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_BlankIDFailsBeforeLookup(t *testing.T) {
	for _, id := range []string{"", "   "} {
		uc, mockRepo := setupTestUsecase(t)

		err := uc.UpdateUser(context.Background(), validUpdateRequest(id))

		require.Error(t, err)
		assert.Equal(t, pkgerrors.KindInvalid, pkgerrors.KindOf(err))
		assert.Contains(t, err.Error(), "Id")
		mockRepo.AssertNotCalled(t, "WithinTransaction", mock.Anything)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	}
}

func TestUpdateUser_NilRequest(t *testing.T) {
	uc, _ := setupTestUsecase(t)

	err := uc.UpdateUser(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "update request is empty")
}

func TestUpdateUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	id := "missing"

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("GetByID", ctx, id).Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

	err := uc.UpdateUser(ctx, validUpdateRequest(id))

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_UserNameTakenByAnotherUser(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	id := "9b2d7e10-1111-4c2a-8f00-5e6d7c8b9a01"
	req := validUpdateRequest(id)
	req.UserName = "jane_1"

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("GetByID", ctx, id).Return(existingUser(id), nil)
	mockRepo.On("ExistsByUserName", ctx, "jane_1", id).Return(true, nil)

	err := uc.UpdateUser(ctx, req)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindConflict, pkgerrors.KindOf(err))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_InvalidRole(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	id := "9b2d7e10-1111-4c2a-8f00-5e6d7c8b9a01"
	req := validUpdateRequest(id)
	req.Role = "Owner"

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("GetByID", ctx, id).Return(existingUser(id), nil)
	mockRepo.On("ExistsByUserName", ctx, "john_1", id).Return(false, nil)

	err := uc.UpdateUser(ctx, req)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInvalid, pkgerrors.KindOf(err))
	assert.Contains(t, err.Error(), "role")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_ClockBehindCreatedDate(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	id := "9b2d7e10-1111-4c2a-8f00-5e6d7c8b9a01"
	stored := existingUser(id)
	stored.CreatedDate = fixedNow.Add(time.Hour)
	createdDate := stored.CreatedDate

	mockRepo.On("WithinTransaction", ctx).Return()
	mockRepo.On("GetByID", ctx, id).Return(stored, nil)
	mockRepo.On("ExistsByUserName", ctx, "john_1", id).Return(false, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return !u.UpdatedDate.Before(createdDate)
	})).Return(nil)

	require.NoError(t, uc.UpdateUser(ctx, validUpdateRequest(id)))
	mockRepo.AssertExpectations(t)
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	id := "9b2d7e10-1111-4c2a-8f00-5e6d7c8b9a01"
	stored := existingUser(id)

	mockRepo.On("GetByID", ctx, id).Return(stored, nil)

	view, err := uc.GetUser(ctx, GetUserRequest{ID: id})

	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, "Admin", view.Role)
	assert.Equal(t, "john_1", view.UserName)
	require.NotNil(t, view.Email)
	assert.Equal(t, "john@gmail.com", *view.Email)
	mockRepo.AssertNotCalled(t, "WithinTransaction", mock.Anything)
}

func TestGetUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "nope").Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

	view, err := uc.GetUser(ctx, GetUserRequest{ID: "nope"})

	assert.Nil(t, view)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
}

func TestGetUser_BlankID(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	_, err := uc.GetUser(context.Background(), GetUserRequest{ID: " "})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInvalid, pkgerrors.KindOf(err))
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetUser_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "abc").Return(nil, pkgerrors.NewInternalError("failed to get user", errors.New("timeout")))

	_, err := uc.GetUser(ctx, GetUserRequest{ID: "abc"})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindUnexpected, pkgerrors.KindOf(err))
}
