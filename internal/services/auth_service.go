package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/planora/todo-planner-api/internal/constants"
	"github.com/planora/todo-planner-api/internal/identity"
	"github.com/planora/todo-planner-api/internal/models"
	"github.com/planora/todo-planner-api/internal/repository"
)

var (
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	ErrEmailTaken         = errors.New("this email is already registered")
	ErrWeakPassword       = errors.New("password was rejected by the identity provider")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// ErrProfileSaveFailed means the identity account was created but the
	// profile record was not. The caller can retry the profile save without
	// re-registering.
	ErrProfileSaveFailed = errors.New("account created but profile could not be saved")
)

// AuthService is the identity gateway: it wraps the identity provider and
// keeps the denormalized profile record in step with it.
type AuthService struct {
	provider    identity.Provider
	profileRepo repository.ProfileRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(provider identity.Provider, profileRepo repository.ProfileRepository) *AuthService {
	return &AuthService{
		provider:    provider,
		profileRepo: profileRepo,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates the identity account and the profile record. Validation
// failures are returned before the provider is ever called. A profile write
// failure after a successful account creation surfaces as
// ErrProfileSaveFailed so the caller knows the account exists.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	id, err := s.provider.CreateAccount(email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			return nil, ErrEmailTaken
		case errors.Is(err, identity.ErrWeakPassword):
			return nil, ErrWeakPassword
		default:
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
	}

	user := &models.User{
		ID:    id,
		Name:  name,
		Email: email,
	}
	if err := s.profileRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileSaveFailed, err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user merged with
// the profile record. A missing profile is not an error; the name simply
// defaults to the empty string.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	id, err := s.provider.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	user, err := s.profileRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.User{ID: id, Name: "", Email: input.Email}, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return user, nil
}

// Logout publishes the logout transition for the user. It never fails;
// session teardown happens at the transport layer regardless.
func (s *AuthService) Logout(userID string) {
	s.provider.SignOut(userID)
}

// GetUser retrieves the profile for an identity identifier.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.profileRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
