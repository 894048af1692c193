package entity

// CompanyContact is a manually curated person attached to a company.
// It is removed together with its company.
type CompanyContact struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"not null;index"`
	FullName  string
	Position  string
	Notes     string

	// Relations
	Emails []*ContactEmail `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE;"`
	Phones []*ContactPhone `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE;"`
}

type ContactEmail struct {
	ID        uint   `gorm:"primaryKey"`
	ContactID uint   `gorm:"not null;index"`
	Email     string `gorm:"not null"`
	IsPrimary bool   `gorm:"not null;default:false"`
	IsMailing bool   `gorm:"not null;default:false"`
}

type ContactPhone struct {
	ID        uint   `gorm:"primaryKey"`
	ContactID uint   `gorm:"not null;index"`
	Phone     string `gorm:"not null"`
	IsPrimary bool   `gorm:"not null;default:false"`
	IsMailing bool   `gorm:"not null;default:false"`
}

// PrimaryEmail returns the first email flagged primary, or the first email
// on file when none is flagged. Multiple rows may carry the primary flag;
// nothing enforces uniqueness, so the first match wins.
func (c *CompanyContact) PrimaryEmail() string {
	for _, e := range c.Emails {
		if e.IsPrimary {
			return e.Email
		}
	}
	if len(c.Emails) > 0 {
		return c.Emails[0].Email
	}
	return ""
}

// PrimaryPhone mirrors PrimaryEmail for phone numbers.
func (c *CompanyContact) PrimaryPhone() string {
	for _, p := range c.Phones {
		if p.IsPrimary {
			return p.Phone
		}
	}
	if len(c.Phones) > 0 {
		return c.Phones[0].Phone
	}
	return ""
}
