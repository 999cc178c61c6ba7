package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/access"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/form"
)

var materialTypes = map[string]bool{
	entity.MaterialTypeInventory:    true,
	entity.MaterialTypeNonInventory: true,
	entity.MaterialTypeNonValuated:  true,
	entity.MaterialTypeService:      true,
}

// MaterialView is a material with its display badge and active flag
type MaterialView struct {
	*entity.Material
	TypeColor string `json:"type_color"`
	Active    bool   `json:"active"`
}

// GLAccountView is a GL account with its active flag
type GLAccountView struct {
	*entity.GLAccount
	Active bool `json:"active"`
}

// MasterDataService manages material and GL account master data
type MasterDataService interface {
	ListMaterials(ctx context.Context, includeExpired bool) ([]MaterialView, error)
	GetMaterial(ctx context.Context, materialNumber string) (*MaterialView, error)
	UpsertMaterial(ctx context.Context, user *entity.User, material *entity.Material) (*MaterialView, error)
	DeleteMaterial(ctx context.Context, user *entity.User, materialNumber string) error

	ListGLAccounts(ctx context.Context, includeExpired bool) ([]GLAccountView, error)
	UpsertGLAccount(ctx context.Context, user *entity.User, account *entity.GLAccount) (*GLAccountView, error)
	DeleteGLAccount(ctx context.Context, user *entity.User, account string) error
}

type masterDataServiceImpl struct {
	materialRepo  port.MaterialRepository
	glAccountRepo port.GLAccountRepository
	logger        Logger
	now           func() time.Time
}

// NewMasterDataService creates a new MasterDataService
func NewMasterDataService(
	materialRepo port.MaterialRepository,
	glAccountRepo port.GLAccountRepository,
	logger Logger,
) MasterDataService {
	return &masterDataServiceImpl{
		materialRepo:  materialRepo,
		glAccountRepo: glAccountRepo,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *masterDataServiceImpl) materialView(m *entity.Material) MaterialView {
	return MaterialView{
		Material:  m,
		TypeColor: form.TypeColor(m.MaterialType),
		Active:    access.IsActive(m.ExpiredDate, s.now()),
	}
}

// ListMaterials returns materials, skipping expired ones unless includeExpired
func (s *masterDataServiceImpl) ListMaterials(ctx context.Context, includeExpired bool) ([]MaterialView, error) {
	materials, err := s.materialRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list materials", "error", err)
		return nil, err
	}

	views := []MaterialView{}
	for _, m := range materials {
		v := s.materialView(m)
		if v.Active || includeExpired {
			views = append(views, v)
		}
	}
	return views, nil
}

// GetMaterial returns one material
func (s *masterDataServiceImpl) GetMaterial(ctx context.Context, materialNumber string) (*MaterialView, error) {
	m, err := s.materialRepo.GetByNumber(ctx, materialNumber)
	if err != nil {
		return nil, err
	}
	v := s.materialView(m)
	return &v, nil
}

// UpsertMaterial creates or replaces a material. Admin only.
func (s *masterDataServiceImpl) UpsertMaterial(ctx context.Context, user *entity.User, m *entity.Material) (*MaterialView, error) {
	if err := requireAdmin(nil, user); err != nil {
		return nil, err
	}

	m.MaterialNumber = strings.TrimSpace(m.MaterialNumber)
	if m.MaterialNumber == "" {
		return nil, fmt.Errorf("%w: material_number is required", ErrInvalidInput)
	}
	if !materialTypes[m.MaterialType] {
		return nil, fmt.Errorf("%w: unknown material type %q", ErrInvalidInput, m.MaterialType)
	}
	if err := validateExpiredDate(m.ExpiredDate); err != nil {
		return nil, err
	}

	m.UpdatedBy = user.Email
	m.UpdatedAt = s.now()
	if err := s.materialRepo.Upsert(ctx, m); err != nil {
		s.logger.Error("Failed to save material", "error", err, "material_number", m.MaterialNumber)
		return nil, err
	}

	s.logger.Info("Material saved", "material_number", m.MaterialNumber, "user", user.Email)
	v := s.materialView(m)
	return &v, nil
}

// DeleteMaterial removes a material. Admin only.
func (s *masterDataServiceImpl) DeleteMaterial(ctx context.Context, user *entity.User, materialNumber string) error {
	if err := requireAdmin(nil, user); err != nil {
		return err
	}
	if err := s.materialRepo.Delete(ctx, materialNumber); err != nil {
		return err
	}
	s.logger.Info("Material deleted", "material_number", materialNumber, "user", user.Email)
	return nil
}

// ListGLAccounts returns GL accounts, skipping expired ones unless includeExpired
func (s *masterDataServiceImpl) ListGLAccounts(ctx context.Context, includeExpired bool) ([]GLAccountView, error) {
	accounts, err := s.glAccountRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list GL accounts", "error", err)
		return nil, err
	}

	now := s.now()
	views := []GLAccountView{}
	for _, a := range accounts {
		active := access.IsActive(a.ExpiredDate, now)
		if active || includeExpired {
			views = append(views, GLAccountView{GLAccount: a, Active: active})
		}
	}
	return views, nil
}

// UpsertGLAccount creates or replaces a GL account. Admin only.
func (s *masterDataServiceImpl) UpsertGLAccount(ctx context.Context, user *entity.User, a *entity.GLAccount) (*GLAccountView, error) {
	if err := requireAdmin(nil, user); err != nil {
		return nil, err
	}

	a.Account = strings.TrimSpace(a.Account)
	if a.Account == "" {
		return nil, fmt.Errorf("%w: gl_account is required", ErrInvalidInput)
	}
	if err := validateExpiredDate(a.ExpiredDate); err != nil {
		return nil, err
	}

	a.UpdatedBy = user.Email
	a.UpdatedAt = s.now()
	if err := s.glAccountRepo.Upsert(ctx, a); err != nil {
		s.logger.Error("Failed to save GL account", "error", err, "gl_account", a.Account)
		return nil, err
	}

	s.logger.Info("GL account saved", "gl_account", a.Account, "user", user.Email)
	return &GLAccountView{GLAccount: a, Active: access.IsActive(a.ExpiredDate, a.UpdatedAt)}, nil
}

// DeleteGLAccount removes a GL account. Admin only.
func (s *masterDataServiceImpl) DeleteGLAccount(ctx context.Context, user *entity.User, account string) error {
	if err := requireAdmin(nil, user); err != nil {
		return err
	}
	if err := s.glAccountRepo.Delete(ctx, account); err != nil {
		return err
	}
	s.logger.Info("GL account deleted", "gl_account", account, "user", user.Email)
	return nil
}

func validateExpiredDate(expiredDate *string) error {
	if expiredDate == nil {
		return nil
	}
	if _, err := form.ParseDate(*expiredDate); err != nil {
		return fmt.Errorf("%w: expired_date %q is not a date", ErrInvalidInput, *expiredDate)
	}
	return nil
}
