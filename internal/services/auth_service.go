package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobspher/jobspher/internal/auth"
	"github.com/jobspher/jobspher/internal/models"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/utils"
)

type RegisterInput struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Role        models.Role `json:"role"`
	PhoneNumber string      `json:"phone_number"`
	Address     string      `json:"address"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)

	// EnsureAdmin creates the seed admin account when it does not exist.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	users pgrepo.UserRepository
}

func NewAuthService(users pgrepo.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	const op = "AuthService.Register"

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "first_name and last_name are required", nil)
	}
	// Admin accounts are seeded, never self-registered.
	if in.Role != models.RoleEmployer && in.Role != models.RoleJobSeeker {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "role must be EMPLOYER or JOB_SEEKER", nil)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:          uuid.NewString(),
		Email:       in.Email,
		Password:    hash,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Role:        in.Role,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Address:     strings.TrimSpace(in.Address),
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, "", utils.E(utils.CodeConflict, op, "email already registered", err)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	token, err := auth.Mint(u.ID, string(u.Role))
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	if err := utils.CheckPassword(u.Password, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}
	if !u.Enabled {
		return nil, "", utils.E(utils.CodeForbidden, op, "account is disabled", nil)
	}

	token, err := auth.Mint(u.ID, string(u.Role))
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, token, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	const op = "AuthService.EnsureAdmin"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil // seeding not configured
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInternal, op, "failed to look up admin", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	admin := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hash,
		FirstName: "System",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, admin); err != nil && !errors.Is(err, utils.ErrDuplicate) {
		return utils.E(utils.CodeInternal, op, "failed to seed admin", err)
	}
	return nil
}
