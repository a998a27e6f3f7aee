package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-service/internal/adapter/gin/middleware"
	usecase "user-service/internal/usecase/user"
	pkgerrors "user-service/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.UserUsecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req *usecase.CreateUserRequest) (*usecase.CreateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.UserView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserView), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req *usecase.UpdateUserRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	logger := zaptest.NewLogger(t)
	handler := NewUserHandler(mockUsecase, logger)

	r := gin.New()
	r.Use(middleware.ErrorHandler(logger))
	r.POST("/users", handler.CreateUser)
	r.PUT("/users", handler.UpdateUser)
	r.GET("/users/:id", handler.GetUser)
	return r, mockUsecase
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateUser(t *testing.T) {
	const body = `{"name":"John","email":"john@gmail.com","role":"Admin","userName":"john_1","createdBy":"system"}`

	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		expected := &usecase.CreateUserRequest{
			Name:      "John",
			Email:     "john@gmail.com",
			Role:      "Admin",
			UserName:  "john_1",
			CreatedBy: "system",
		}
		mockUsecase.On("CreateUser", mock.Anything, expected).Return(&usecase.CreateUserResponse{
			ID:      "3f1c8a52-6a0e-4b8f-9a43-0d6f1f3b7c21",
			Message: "User with Id 3f1c8a52-6a0e-4b8f-9a43-0d6f1f3b7c21 created successfully",
		}, nil)

		w := doJSON(r, http.MethodPost, "/users", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp CreateUserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "3f1c8a52-6a0e-4b8f-9a43-0d6f1f3b7c21", resp.ID)
		assert.Contains(t, resp.Message, "created successfully")
		mockUsecase.AssertExpectations(t)
	})

	t.Run("EmptyBodyIsNilRequest", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, (*usecase.CreateUserRequest)(nil)).
			Return(nil, pkgerrors.NewValidationError("", "The create request is empty"))

		w := doJSON(r, http.MethodPost, "/users", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "The create request is empty")
	})

	t.Run("NullBodyIsNilRequest", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, (*usecase.CreateUserRequest)(nil)).
			Return(nil, pkgerrors.NewValidationError("", "The create request is empty"))

		w := doJSON(r, http.MethodPost, "/users", "null")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doJSON(r, http.MethodPost, "/users", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("WrongFieldType", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doJSON(r, http.MethodPost, "/users", `{"name":42}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Conflict", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewAlreadyExistsError("user", "duplicate userName"))

		w := doJSON(r, http.MethodPost, "/users", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp middleware.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, middleware.MessageConflict, resp.Message)
		assert.NotContains(t, w.Body.String(), "john_1")
	})

	t.Run("InternalError", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewInternalError("failed to create user", errors.New("pq: connection refused")))

		w := doJSON(r, http.MethodPost, "/users", body)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), middleware.MessageUnexpected)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		ts := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: "abc"}).Return(&usecase.UserView{
			ID:          "abc",
			Name:        "John",
			Role:        "Admin",
			UserName:    "john_1",
			CreatedBy:   "system",
			UpdatedBy:   "system",
			CreatedDate: ts,
			UpdatedDate: ts,
		}, nil)

		w := doJSON(r, http.MethodGet, "/users/abc", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"id": "abc",
			"name": "John",
			"email": null,
			"role": "Admin",
			"userName": "john_1",
			"createdBy": "system",
			"updatedBy": "system",
			"createdDate": "2026-10-01T12:00:00Z",
			"updatedDate": "2026-10-01T12:00:00Z"
		}`, w.Body.String())
	})

	t.Run("NotFound", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: "missing"}).
			Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

		w := doJSON(r, http.MethodGet, "/users/missing", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), middleware.MessageNotFound)
	})
}

func TestUpdateUser(t *testing.T) {
	const body = `{"id":"abc","name":"John","role":"Customer","userName":"john_1","updatedBy":"admin_2"}`

	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		expected := &usecase.UpdateUserRequest{
			ID:        "abc",
			Name:      "John",
			Role:      "Customer",
			UserName:  "john_1",
			UpdatedBy: "admin_2",
		}
		mockUsecase.On("UpdateUser", mock.Anything, expected).Return(nil)

		w := doJSON(r, http.MethodPut, "/users", body)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		mockUsecase.AssertExpectations(t)
	})

	t.Run("ValidationError", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(pkgerrors.NewValidationError("ID", "Invalid Id ''"))

		w := doJSON(r, http.MethodPut, "/users", `{"name":"John"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid Id")
	})

	t.Run("NotFound", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(pkgerrors.NewNotFoundError("user", "user not found"))

		w := doJSON(r, http.MethodPut, "/users", body)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Conflict", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(pkgerrors.NewAlreadyExistsError("user", "duplicate userName"))

		w := doJSON(r, http.MethodPut, "/users", body)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
