package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-service/internal/domain/user"
	"user-service/internal/metrics"
	pkgerrors "user-service/pkg/errors"
	"user-service/pkg/logger"
	"user-service/pkg/security"
)

// Usecase implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Usecase struct {
	repo      Repository       // Repository for data access
	log       *zap.Logger      // Logger for structured logging
	validator *Validator       // Validator for request syntax
	now       func() time.Time // Clock, replaceable in tests
	newID     func() string    // Id generator, replaceable in tests
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:      r,
		log:       log,
		validator: NewValidator(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// CreateUser creates a new user after validating the request and checking userName uniqueness.
func (uc *Usecase) CreateUser(ctx context.Context, in *CreateUserRequest) (resp *CreateUserResponse, err error) {
	defer func() { metrics.RecordUserOperation("create", err) }()
	log := logger.WithContext(ctx, uc.log)

	if err := uc.validator.ValidateCreate(in); err != nil {
		log.Warn("create user validation failed", zap.Error(err))
		return nil, err
	}

	log.Info("creating user", zap.String("user_name", in.UserName), zap.String("created_by", in.CreatedBy))

	var created *domain.User
	err = uc.repo.WithinTransaction(ctx, func(repo Repository) error {
		exists, err := repo.ExistsByUserName(ctx, in.UserName, "")
		if err != nil {
			return pkgerrors.NewInternalError("failed to validate userName uniqueness", err)
		}
		if exists {
			log.Warn("userName already exists", zap.String("user_name", in.UserName))
			return pkgerrors.NewAlreadyExistsError("user", "duplicate userName")
		}

		role, err := domain.ParseRole(in.Role)
		if err != nil {
			log.Warn("create user with unknown role", zap.String("role", in.Role))
			return pkgerrors.NewValidationError("Role", "role not valid")
		}

		now := uc.now().UTC()
		u := &domain.User{
			ID:          uc.newID(),
			Name:        in.Name,
			Email:       optionalEmail(in.Email),
			Role:        role,
			UserName:    in.UserName,
			CreatedBy:   in.CreatedBy,
			UpdatedBy:   in.CreatedBy,
			CreatedDate: now,
			UpdatedDate: now,
		}
		if err := repo.Create(ctx, u); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindUnexpected {
			log.Error("failed to create user", zap.String("user_name", in.UserName), zap.Error(err))
		}
		return nil, err
	}

	log.Info("user created", zap.String("id", created.ID))
	return &CreateUserResponse{
		ID:      created.ID,
		Message: fmt.Sprintf("User with Id %s created successfully", created.ID),
	}, nil
}

// UpdateUser replaces the mutable fields of an existing user.
// ID, CreatedBy and CreatedDate are never touched.
func (uc *Usecase) UpdateUser(ctx context.Context, in *UpdateUserRequest) (err error) {
	defer func() { metrics.RecordUserOperation("update", err) }()
	log := logger.WithContext(ctx, uc.log)

	if err := uc.validator.ValidateUpdate(in); err != nil {
		log.Warn("update user validation failed", zap.Error(err))
		return err
	}

	log.Info("updating user", zap.String("id", in.ID), zap.String("user_name", in.UserName), zap.String("updated_by", in.UpdatedBy))

	err = uc.repo.WithinTransaction(ctx, func(repo Repository) error {
		u, err := repo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}

		exists, err := repo.ExistsByUserName(ctx, in.UserName, in.ID)
		if err != nil {
			return pkgerrors.NewInternalError("failed to validate userName uniqueness", err)
		}
		if exists {
			log.Warn("userName already exists", zap.String("user_name", in.UserName), zap.String("id", in.ID))
			return pkgerrors.NewAlreadyExistsError("user", "duplicate userName")
		}

		role, err := domain.ParseRole(in.Role)
		if err != nil {
			log.Warn("update user with unknown role", zap.String("role", in.Role))
			return pkgerrors.NewValidationError("Role", "role not valid")
		}

		u.Name = in.Name
		u.Email = optionalEmail(in.Email)
		u.Role = role
		u.UserName = in.UserName
		u.UpdatedBy = in.UpdatedBy
		u.UpdatedDate = uc.now().UTC()
		if u.UpdatedDate.Before(u.CreatedDate) {
			u.UpdatedDate = u.CreatedDate
		}

		return repo.Update(ctx, u)
	})
	if err != nil {
		switch pkgerrors.KindOf(err) {
		case pkgerrors.KindNotFound:
			log.Info("user not found", zap.String("id", in.ID))
		case pkgerrors.KindUnexpected:
			log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
		}
		return err
	}

	log.Info("user updated", zap.String("id", in.ID))
	return nil
}

// GetUser retrieves a user by ID. A missing user is reported as a NotFoundError.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (view *UserView, err error) {
	defer func() { metrics.RecordUserOperation("get", err) }()
	log := logger.WithContext(ctx, uc.log)

	if security.IsBlank(in.ID) {
		log.Warn("get user validation failed", zap.String("id", in.ID), zap.String("reason", "blank id"))
		return nil, pkgerrors.NewValidationError("ID", fmt.Sprintf("Invalid Id '%s'", in.ID))
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			log.Info("user not found", zap.String("id", in.ID))
		} else {
			log.Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		}
		return nil, err
	}

	return toView(u), nil
}

func toView(u *domain.User) *UserView {
	return &UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role.String(),
		UserName:    u.UserName,
		CreatedBy:   u.CreatedBy,
		UpdatedBy:   u.UpdatedBy,
		CreatedDate: u.CreatedDate,
		UpdatedDate: u.UpdatedDate,
	}
}

// optionalEmail stores a blank email as absent.
func optionalEmail(email string) *string {
	if security.IsBlank(email) {
		return nil
	}
	return &email
}
