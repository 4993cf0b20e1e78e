package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"wayfare/internal/auth"
	"wayfare/internal/domain"
	"wayfare/internal/repository"
)

// ProfilePatch carries the self-service profile fields. Nil fields are
// left unchanged.
type ProfilePatch struct {
	Username     *string
	UserTitle    *string
	ProfileImage *string
}

// UserService describes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, callerID string, patch ProfilePatch) (*domain.User, error)
	ListUsers(ctx context.Context, caller *auth.Claims, page, limit int) ([]domain.User, int, error)
	DeleteUser(ctx context.Context, caller *auth.Claims, targetID string) error
	EnsureAdmin(ctx context.Context, username, email, password, title string) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.InternalError(err)
	}

	// New accounts are never admin; the only admin paths are the
	// startup seed and manual promotion in the store.
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil, domain.ValidationError("email already exists")
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ValidationError("all fields are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.AuthenticationError("invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.AuthenticationError("invalid credentials")
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, callerID string, patch ProfilePatch) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, domain.ValidationError("username cannot be blank")
		}
		user.Username = username
	}
	if patch.UserTitle != nil {
		user.UserTitle = strings.TrimSpace(*patch.UserTitle)
	}
	if patch.ProfileImage != nil {
		user.ProfileImage = *patch.ProfileImage
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) ListUsers(ctx context.Context, caller *auth.Claims, page, limit int) ([]domain.User, int, error) {
	if caller == nil {
		return nil, 0, domain.AuthenticationError("no token, authorization denied")
	}
	if !caller.IsAdmin {
		return nil, 0, domain.AuthorizationError("admin access required")
	}

	page, limit = clampPage(page, limit, 10)
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

// DeleteUser re-fetches the caller's live record before acting so a stale
// admin claim on a demoted or deleted account cannot remove users.
func (s *userService) DeleteUser(ctx context.Context, caller *auth.Claims, targetID string) error {
	if caller == nil {
		return domain.AuthenticationError("no token, authorization denied")
	}

	live, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.AuthenticationError("account no longer exists")
		}
		return err
	}
	if !live.IsAdmin {
		return domain.AuthorizationError("admin access required")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !auth.CanDeleteUser(&auth.Claims{UserID: live.ID, IsAdmin: live.IsAdmin}, target) {
		return domain.AuthorizationError("admin accounts cannot be deleted")
	}

	// No cascade: the target's articles and comments stay behind and
	// render with a placeholder author.
	return s.users.Delete(ctx, targetID)
}

// EnsureAdmin seeds the bootstrap admin account if the email is absent.
// A concurrent duplicate seed loses benignly to the UNIQUE constraint.
func (s *userService) EnsureAdmin(ctx context.Context, username, email, password, title string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != domain.KindNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError(err)
	}

	admin := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		UserTitle:    title,
		IsAdmin:      true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil
		}
		return err
	}
	return nil
}

func validateRegistration(username, email, password string) error {
	err := validation.Errors{
		"username": validation.Validate(username, validation.Required),
		"email":    validation.Validate(email, validation.Required, is.EmailFormat),
		"password": validation.Validate(password, validation.Required, validation.Length(8, 0)),
	}.Filter()
	if err != nil {
		return domain.ValidationError("%v", err)
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}

func clampPage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
