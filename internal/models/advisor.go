package models

// Specialization is the fixed set of advisor practice areas.
type Specialization string

const (
	SpecializationEquities               Specialization = "Equities"
	SpecializationFixedIncome            Specialization = "Fixed Income"
	SpecializationDerivatives            Specialization = "Derivatives"
	SpecializationCommodities            Specialization = "Commodities"
	SpecializationAlternativeInvestments Specialization = "Alternative Investments"
	SpecializationPortfolioManagement    Specialization = "Portfolio Management"
)

// Specializations lists every accepted specialization in display order.
var Specializations = []Specialization{
	SpecializationEquities,
	SpecializationFixedIncome,
	SpecializationDerivatives,
	SpecializationCommodities,
	SpecializationAlternativeInvestments,
	SpecializationPortfolioManagement,
}

// Valid reports whether s is one of Specializations.
func (s Specialization) Valid() bool {
	for _, known := range Specializations {
		if s == known {
			return true
		}
	}
	return false
}

// Advisor is a network participant who authors stock recommendations.
// Advisors are never removed; IsActive=false is the soft delete.
type Advisor struct {
	Base
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone          *string        `json:"phone,omitempty"`
	Specialization Specialization `gorm:"not null" json:"specialization"`
	Bio            *string        `json:"bio,omitempty"`
	ProfileImage   *string        `json:"profile_image,omitempty"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	UserID         *string        `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`

	Recommendations []Recommendation `gorm:"foreignKey:AdvisorID" json:"recommendations,omitempty"`
}
