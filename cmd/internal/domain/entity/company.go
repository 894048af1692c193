package entity

import "time"

// Company is the primary business entity, keyed by its BIN (the national
// 12-digit business identifier). Scalar fields mirror the upstream registry
// snapshot and are overwritten wholesale on every reload; the classifier
// references point into the shared classifier_nodes table.
type Company struct {
	ID           uint   `gorm:"primaryKey"`
	BIN          string `gorm:"column:bin;not null;uniqueIndex"`
	NameRu       string `gorm:"index"`
	NameKz       string
	RegisterDate *time.Time
	CEO          string `gorm:"column:ceo"`
	PayNDS       *bool  `gorm:"column:pay_nds"`
	TaxRisk      string
	Address      string
	PhoneNumber  string
	Email        string

	TerritoryID       *uint
	OwnershipFormID   *uint
	EconomicSectorID  *uint
	SizeClassID       *uint
	PrimaryActivityID *uint
	IndustryID        *uint

	UpdatedAt int64 `gorm:"autoUpdateTime:milli"`

	// Relations
	Territory       *ClassifierNode `gorm:"foreignKey:TerritoryID"`
	OwnershipForm   *ClassifierNode `gorm:"foreignKey:OwnershipFormID"`
	EconomicSector  *ClassifierNode `gorm:"foreignKey:EconomicSectorID"`
	SizeClass       *ClassifierNode `gorm:"foreignKey:SizeClassID"`
	PrimaryActivity *ClassifierNode `gorm:"foreignKey:PrimaryActivityID"`
	Industry        *ClassifierNode `gorm:"foreignKey:IndustryID"`

	SecondaryActivities []*ClassifierNode `gorm:"many2many:company_secondary_activities"`
	Products            []*ClassifierNode `gorm:"many2many:company_products"`

	Contacts []*CompanyContact `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Taxes           []*TaxMetric      `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE;"`
	Vat             []*VatMetric      `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE;"`
	SupplierVolumes []*SupplierMetric `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE;"`
	CustomerVolumes []*CustomerMetric `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE;"`

	Participations []*ProgramParticipation `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE;"`
}
