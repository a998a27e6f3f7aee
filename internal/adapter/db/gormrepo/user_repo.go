package gormrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-service/internal/domain/user"
	"user-service/internal/usecase/user"
	pkgerrors "user-service/pkg/errors"
)

// UserRepo implements the user.Repository interface using GORM.
// The same code runs against PostgreSQL and SQLite.
type UserRepo struct {
	db  *gorm.DB    // GORM database connection, or the open transaction
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID          string      `gorm:"primaryKey;size:36"`                       // UUID assigned by the use case
	Name        string      `gorm:"not null"`                                 // Display name
	Email       *string     `gorm:"size:320"`                                 // Optional email, NULL when absent
	Role        domain.Role `gorm:"type:varchar(32);not null"`                // Stored by display name
	UserName    string      `gorm:"uniqueIndex:idx_users_user_name;not null"` // Unique across all users
	CreatedBy   string      `gorm:"not null"`                                 // Creator, never changes
	UpdatedBy   string      `gorm:"not null"`                                 // Last modifier
	CreatedDate time.Time   `gorm:"not null"`                                 // Set once at creation
	UpdatedDate time.Time   `gorm:"not null"`                                 // Moves on every update
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// AutoMigrate creates or alters the users table and its unique index.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u == nil {
		return pkgerrors.NewInternalError("user cannot be nil", nil)
	}

	model := fromDomain(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("userName rejected by unique index", zap.String("user_name", u.UserName))
			return &pkgerrors.AlreadyExistsError{Resource: "user", Message: "duplicate userName", Err: err}
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("user_name", u.UserName))
		return pkgerrors.NewInternalError("failed to create user", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("id", id))
			return nil, pkgerrors.NewNotFoundError("user", "user not found")
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}

	return model.toDomain(), nil
}

// ExistsByUserName reports whether a user other than excludeID already holds userName.
// An empty excludeID checks every user.
func (r *UserRepo) ExistsByUserName(ctx context.Context, userName, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&UserSchema{}).Where("user_name = ?", userName)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		r.log.Error("failed to count users by userName", zap.Error(err), zap.String("user_name", userName))
		return false, err
	}
	return count > 0, nil
}

// Update writes the mutable columns of an existing user.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if u == nil {
		return pkgerrors.NewInternalError("user cannot be nil", nil)
	}

	model := fromDomain(u)
	result := r.db.WithContext(ctx).
		Model(&UserSchema{ID: u.ID}).
		Select("name", "email", "role", "user_name", "updated_by", "updated_date").
		Updates(&model)
	if err := result.Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("userName rejected by unique index", zap.String("user_name", u.UserName), zap.String("id", u.ID))
			return &pkgerrors.AlreadyExistsError{Resource: "user", Message: "duplicate userName", Err: err}
		}
		r.log.Error("failed to update user in db", zap.Error(err), zap.String("id", u.ID))
		return pkgerrors.NewInternalError("failed to update user", err)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", "user not found")
	}

	r.log.Info("user updated in db", zap.String("id", u.ID))
	return nil
}

// WithinTransaction runs fn against a repository bound to a single database
// transaction. The transaction commits when fn returns nil and rolls back otherwise.
func (r *UserRepo) WithinTransaction(ctx context.Context, fn func(repo user.Repository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepo{db: tx, log: r.log})
	})
	if err == nil {
		return nil
	}

	var internalErr *pkgerrors.InternalError
	switch {
	case pkgerrors.KindOf(err) != pkgerrors.KindUnexpected, errors.As(err, &internalErr):
		return err
	case isUniqueViolation(err):
		return &pkgerrors.AlreadyExistsError{Resource: "user", Message: "duplicate userName", Err: err}
	default:
		r.log.Error("user transaction failed", zap.Error(err))
		return pkgerrors.NewInternalError("user transaction failed", err)
	}
}

// isUniqueViolation recognises unique index violations. The message match covers
// drivers that do not implement gorm's error translator.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func fromDomain(u *domain.User) UserSchema {
	return UserSchema{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		UserName:    u.UserName,
		CreatedBy:   u.CreatedBy,
		UpdatedBy:   u.UpdatedBy,
		CreatedDate: u.CreatedDate.UTC(),
		UpdatedDate: u.UpdatedDate.UTC(),
	}
}

func (m UserSchema) toDomain() *domain.User {
	return &domain.User{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Role:        m.Role,
		UserName:    m.UserName,
		CreatedBy:   m.CreatedBy,
		UpdatedBy:   m.UpdatedBy,
		CreatedDate: m.CreatedDate.UTC(),
		UpdatedDate: m.UpdatedDate.UTC(),
	}
}
