package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-service/internal/usecase/user"
	pkgerrors "user-service/pkg/errors"
	"user-service/pkg/logger"
)

// UserHandler handles HTTP requests for user operations.
// Errors are recorded with c.Error and rendered by middleware.ErrorHandler.
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	UserName  string `json:"userName"`
	CreatedBy string `json:"createdBy"`
}

// UpdateUserRequest represents the HTTP request body for updating a user
type UpdateUserRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	UserName  string `json:"userName"`
	UpdatedBy string `json:"updatedBy"`
}

// CreateUserResponse is returned with 201 Created
type CreateUserResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email"`
	Role        string    `json:"role"`
	UserName    string    `json:"userName"`
	CreatedBy   string    `json:"createdBy"`
	UpdatedBy   string    `json:"updatedBy"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := decodeBody[CreateUserRequest](c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var in *user.CreateUserRequest
	if body != nil {
		in = &user.CreateUserRequest{
			Name:      body.Name,
			Email:     body.Email,
			Role:      body.Role,
			UserName:  body.UserName,
			CreatedBy: body.CreatedBy,
		}
	}

	resp, err := h.uc.CreateUser(ctx, in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	logger.WithContext(ctx, h.log).Debug("create user handled", zap.String("id", resp.ID))
	c.JSON(http.StatusCreated, CreateUserResponse{
		ID:      resp.ID,
		Message: resp.Message,
	})
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: c.Param("id")})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:          resp.ID,
		Name:        resp.Name,
		Email:       resp.Email,
		Role:        resp.Role,
		UserName:    resp.UserName,
		CreatedBy:   resp.CreatedBy,
		UpdatedBy:   resp.UpdatedBy,
		CreatedDate: resp.CreatedDate,
		UpdatedDate: resp.UpdatedDate,
	})
}

// UpdateUser handles PUT /api/v1/users. The target id travels in the body.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	body, err := decodeBody[UpdateUserRequest](c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var in *user.UpdateUserRequest
	if body != nil {
		in = &user.UpdateUserRequest{
			ID:        body.ID,
			Name:      body.Name,
			Email:     body.Email,
			Role:      body.Role,
			UserName:  body.UserName,
			UpdatedBy: body.UpdatedBy,
		}
	}

	if err := h.uc.UpdateUser(c.Request.Context(), in); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// decodeBody reads a JSON object from the request body. An empty body or a JSON
// null yields a nil request, which the use case reports as an empty request.
func decodeBody[T any](c *gin.Context) (*T, error) {
	var body *T
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, pkgerrors.NewValidationError("body", "The request body is not valid JSON")
	}
	return body, nil
}
