package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/jobspher/jobspher/internal/models"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/utils"
)

type CompanyInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Industry    string         `json:"industry"`
	Website     string         `json:"website"`
	Address     string         `json:"address"`
	PhoneNumber string         `json:"phone_number"`
	LogoPath    string         `json:"logo_path"`
	SocialLinks datatypes.JSON `json:"social_links"`
}

// CompanyService owns the employer-company 1:1 relationship. The
// payment_verified flag is off-limits here; only the payment review
// workflow writes it.
type CompanyService interface {
	Register(ctx context.Context, employer *models.User, in CompanyInput) (*models.Company, error)
	GetByEmployer(ctx context.Context, employer *models.User) (*models.Company, error)
	Update(ctx context.Context, employer *models.User, in CompanyInput) (*models.Company, error)
}

type companyService struct {
	companies pgrepo.CompanyRepository
}

func NewCompanyService(companies pgrepo.CompanyRepository) CompanyService {
	return &companyService{companies: companies}
}

func (s *companyService) Register(ctx context.Context, employer *models.User, in CompanyInput) (*models.Company, error) {
	const op = "CompanyService.Register"

	if employer == nil || employer.Role != models.RoleEmployer {
		return nil, utils.E(utils.CodeForbidden, op, "only employers can register a company", nil)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company name is required", nil)
	}

	exists, err := s.companies.ExistsByEmployer(ctx, employer.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing company", err)
	}
	if exists {
		return nil, utils.E(utils.CodeConflict, op, "company already exists for this employer", nil)
	}

	now := time.Now().UTC()
	c := &models.Company{
		ID:              uuid.NewString(),
		EmployerID:      employer.ID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Industry:        in.Industry,
		Website:         in.Website,
		Address:         in.Address,
		PhoneNumber:     in.PhoneNumber,
		PaymentVerified: false,
		LogoPath:        in.LogoPath,
		SocialLinks:     in.SocialLinks,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.companies.Insert(ctx, c); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "company already exists for this employer", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create company", err)
	}
	return c, nil
}

func (s *companyService) GetByEmployer(ctx context.Context, employer *models.User) (*models.Company, error) {
	const op = "CompanyService.GetByEmployer"

	if employer == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer is required", nil)
	}

	c, err := s.companies.GetByEmployer(ctx, employer.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}
	return c, nil
}

func (s *companyService) Update(ctx context.Context, employer *models.User, in CompanyInput) (*models.Company, error) {
	const op = "CompanyService.Update"

	c, err := s.GetByEmployer(ctx, employer)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company name is required", nil)
	}

	// Full replace of the editable fields; payment_verified is untouched.
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.Industry = in.Industry
	c.Website = in.Website
	c.Address = in.Address
	c.PhoneNumber = in.PhoneNumber
	if in.LogoPath != "" {
		c.LogoPath = in.LogoPath
	}
	if in.SocialLinks != nil {
		c.SocialLinks = in.SocialLinks
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.companies.Update(ctx, c); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update company", err)
	}
	return c, nil
}
