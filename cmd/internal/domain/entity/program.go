package entity

// Program is a state support program companies can participate in.
type Program struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null;uniqueIndex"`
	Description string

	// Relations
	Participants []*ProgramParticipation `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE;"`
}

// ProgramParticipation records one company/program/year combination.
// Year may be absent; such rows surface as a "no year" bucket in the
// program drill-down.
type ProgramParticipation struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"not null;uniqueIndex:idx_participation_company_program_year"`
	ProgramID uint `gorm:"not null;uniqueIndex:idx_participation_company_program_year"`
	Year      *int `gorm:"uniqueIndex:idx_participation_company_program_year"`

	// Relations
	Program *Program `gorm:"foreignKey:ProgramID"`
}
