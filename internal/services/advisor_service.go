package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"
	"advisoriq/internal/pagination"
)

// advisorService handles roster management.
type advisorService struct {
	db *gorm.DB
}

// NewAdvisorService creates a new AdvisorServicer.
func NewAdvisorService(db *gorm.DB) AdvisorServicer {
	return &advisorService{db: db}
}

// CreateAdvisor adds an advisor to the roster. Only operations and admin
// users may create advisors directly.
func (s *advisorService) CreateAdvisor(actor Actor, input AdvisorInput) (*models.Advisor, error) {
	if !actor.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name and email are required")
	}
	if input.Specialization == "" {
		input.Specialization = models.SpecializationEquities
	}
	if !input.Specialization.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported specialization")
	}

	if err := s.ensureEmailFree(email, ""); err != nil {
		return nil, err
	}

	advisor := &models.Advisor{
		Name:           name,
		Email:          email,
		Phone:          input.Phone,
		Specialization: input.Specialization,
		Bio:            input.Bio,
		ProfileImage:   input.ProfileImage,
		IsActive:       true,
		UserID:         input.UserID,
	}
	if err := s.db.Create(advisor).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return advisor, nil
}

func (s *advisorService) ensureEmailFree(email, exceptID string) error {
	query := s.db.Model(&models.Advisor{}).Where("email = ?", email)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateAdvisorEmail
	}
	return nil
}

// GetAdvisors returns a page of advisors ordered by name.
func (s *advisorService) GetAdvisors(filter AdvisorFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Advisor], error) {
	page.Defaults()

	query := s.db.Model(&models.Advisor{})
	if like, ok := containsPattern(filter.Search); ok {
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, like, like)
	}
	if filter.Specialization != "" {
		query = query.Where("specialization = ?", filter.Specialization)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var advisors []models.Advisor
	if err := query.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&advisors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(advisors, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAdvisorByID retrieves an advisor. Advisors may only read their own profile.
func (s *advisorService) GetAdvisorByID(actor Actor, advisorID string) (*models.Advisor, error) {
	if !actor.CanAccessAdvisor(advisorID) {
		return nil, apperrors.ErrForbidden
	}
	return s.findByID(advisorID)
}

func (s *advisorService) findByID(advisorID string) (*models.Advisor, error) {
	var advisor models.Advisor
	if err := s.db.Where("id = ?", advisorID).First(&advisor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAdvisorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &advisor, nil
}

// GetAdvisorByUserID retrieves the advisor profile linked to a user.
func (s *advisorService) GetAdvisorByUserID(userID string) (*models.Advisor, error) {
	var advisor models.Advisor
	if err := s.db.Where("user_id = ?", userID).First(&advisor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoAdvisorProfile
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &advisor, nil
}

// EnsureAdvisorForUser returns the advisor linked to an advisor-role user,
// creating it on first login. A roster entry with the user's email is
// claimed instead of duplicated. Other roles get ErrNoAdvisorProfile.
func (s *advisorService) EnsureAdvisorForUser(user *models.User) (*models.Advisor, error) {
	if user.Role != models.RoleAdvisor {
		return nil, apperrors.ErrNoAdvisorProfile
	}

	existing, err := s.GetAdvisorByUserID(user.ID)
	if err == nil {
		return existing, nil
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrNoAdvisorProfile.Code {
		return nil, err
	}

	var advisor models.Advisor
	err = s.db.Transaction(func(tx *gorm.DB) error {
		lookup := tx.Where("email = ? AND user_id IS NULL", strings.ToLower(user.Email)).First(&advisor)
		if lookup.Error == nil {
			userID := user.ID
			advisor.UserID = &userID
			return tx.Model(&advisor).Update("user_id", userID).Error
		}
		if !errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
			return lookup.Error
		}

		userID := user.ID
		advisor = models.Advisor{
			Name:           user.DisplayName(),
			Email:          strings.ToLower(user.Email),
			Specialization: models.SpecializationEquities,
			IsActive:       true,
			UserID:         &userID,
		}
		return tx.Create(&advisor).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &advisor, nil
}

// UpdateAdvisor applies a partial edit. Advisors may edit their own profile
// but cannot change their active flag.
func (s *advisorService) UpdateAdvisor(actor Actor, advisorID string, update AdvisorUpdate) (*models.Advisor, error) {
	if !actor.CanAccessAdvisor(advisorID) {
		return nil, apperrors.ErrForbidden
	}
	if update.IsActive != nil && !actor.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	advisor, err := s.findByID(advisorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name and email are required")
		}
		updates["name"] = name
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name and email are required")
		}
		if err := s.ensureEmailFree(email, advisorID); err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if update.Specialization != nil {
		if !update.Specialization.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported specialization")
		}
		updates["specialization"] = *update.Specialization
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.ProfileImage != nil {
		updates["profile_image"] = *update.ProfileImage
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(advisor).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.findByID(advisorID)
}

// DeactivateAdvisor soft-deletes an advisor by clearing its active flag.
func (s *advisorService) DeactivateAdvisor(actor Actor, advisorID string) error {
	if !actor.IsStaff() {
		return apperrors.ErrForbidden
	}
	advisor, err := s.findByID(advisorID)
	if err != nil {
		return err
	}
	if err := s.db.Model(advisor).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListAllAdvisors returns the full roster, active and inactive.
func (s *advisorService) ListAllAdvisors() ([]models.Advisor, error) {
	var advisors []models.Advisor
	if err := s.db.Order("name ASC").Find(&advisors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return advisors, nil
}
