package repository

import (
	"errors"

	"binregistry/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompanyFilter is the resolved, AND-composed filter set applied to the
// company collection. Prefix fields hold classifier paths already resolved
// by the caller; empty means "no filter on this axis".
type CompanyFilter struct {
	TerritoryPrefix string
	ActivityPrefix  string
	SectorPrefix    string
	ProductPrefix   string
	IndustryPrefix  string
	OwnershipFormID *uint
	SizeClassID     *uint
	ProgramID       *uint
	Year            *int
	NoYear          bool
	Search          string
}

type DefaultCompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *DefaultCompanyRepository {
	return &DefaultCompanyRepository{db: db}
}

// Upsert creates the company when the BIN is unseen, otherwise overwrites
// every scalar column of the existing row with the fresh values, nulls
// included. Relations are left alone; the caller manages them separately.
func (r *DefaultCompanyRepository) Upsert(fresh *entity.Company) (*entity.Company, bool, error) {
	var existing entity.Company
	err := r.db.Where("bin = ?", fresh.BIN).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Omit(clause.Associations).Create(fresh).Error; err != nil {
			return nil, false, err
		}
		return fresh, true, nil
	}

	if err != nil {
		return nil, false, err
	}

	fresh.ID = existing.ID
	// The industry reference is curated locally and never arrives with a
	// source snapshot; it survives the scalar overwrite.
	if fresh.IndustryID == nil {
		fresh.IndustryID = existing.IndustryID
	}
	if err := r.db.Omit(clause.Associations).Save(fresh).Error; err != nil {
		return nil, false, err
	}
	return fresh, false, nil
}

// ReplaceSecondaryActivities swaps the whole secondary-activity relation.
// Callers must only invoke this when the source actually supplied codes;
// an absent source list preserves the stored relation.
func (r *DefaultCompanyRepository) ReplaceSecondaryActivities(company *entity.Company, nodes []*entity.ClassifierNode) error {
	return r.db.Model(company).Association("SecondaryActivities").Replace(nodes)
}

// FindByBIN loads the full entity graph: classifiers, contacts with their
// emails and phones, all four metric series and program participations.
func (r *DefaultCompanyRepository) FindByBIN(bin string) (*entity.Company, error) {
	var company entity.Company
	err := r.db.
		Preload("Territory").
		Preload("OwnershipForm").
		Preload("EconomicSector").
		Preload("SizeClass").
		Preload("PrimaryActivity").
		Preload("Industry").
		Preload("SecondaryActivities").
		Preload("Products").
		Preload("Contacts").
		Preload("Contacts.Emails").
		Preload("Contacts.Phones").
		Preload("Taxes").
		Preload("Vat").
		Preload("SupplierVolumes").
		Preload("CustomerVolumes").
		Preload("Participations").
		Preload("Participations.Program").
		Where("bin = ?", bin).
		First(&company).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &company, nil
}

// List applies the filter set with logical AND and returns matches ordered
// by Russian name. Preloads cover what the list and export views render.
func (r *DefaultCompanyRepository) List(f *CompanyFilter) ([]*entity.Company, error) {
	q := r.db.
		Model(&entity.Company{}).
		Distinct("companies.*").
		Preload("Territory").
		Preload("PrimaryActivity").
		Preload("Products").
		Preload("Contacts").
		Preload("Contacts.Emails").
		Preload("Contacts.Phones")

	if f != nil {
		q = applyFilter(q, f)
	}

	var companies []*entity.Company
	if err := q.Order("companies.name_ru").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func applyFilter(q *gorm.DB, f *CompanyFilter) *gorm.DB {
	if f.TerritoryPrefix != "" {
		q = q.
			Joins("JOIN classifier_nodes AS territory ON territory.id = companies.territory_id").
			Where("territory.path LIKE ?", f.TerritoryPrefix+"%")
	}

	if f.ActivityPrefix != "" {
		q = q.
			Joins("JOIN classifier_nodes AS activity ON activity.id = companies.primary_activity_id").
			Where("activity.path LIKE ?", f.ActivityPrefix+"%")
	}

	if f.SectorPrefix != "" {
		q = q.
			Joins("JOIN classifier_nodes AS sector ON sector.id = companies.economic_sector_id").
			Where("sector.path LIKE ?", f.SectorPrefix+"%")
	}

	if f.ProductPrefix != "" {
		q = q.
			Joins("JOIN company_products AS cp ON cp.company_id = companies.id").
			Joins("JOIN classifier_nodes AS product ON product.id = cp.classifier_node_id").
			Where("product.path LIKE ?", f.ProductPrefix+"%")
	}

	if f.IndustryPrefix != "" {
		q = q.
			Joins("JOIN classifier_nodes AS industry ON industry.id = companies.industry_id").
			Where("industry.path LIKE ?", f.IndustryPrefix+"%")
	}

	if f.OwnershipFormID != nil {
		q = q.Where("companies.ownership_form_id = ?", *f.OwnershipFormID)
	}

	if f.SizeClassID != nil {
		q = q.Where("companies.size_class_id = ?", *f.SizeClassID)
	}

	if f.ProgramID != nil {
		q = q.
			Joins("JOIN program_participations AS pp ON pp.company_id = companies.id").
			Where("pp.program_id = ?", *f.ProgramID)

		if f.NoYear {
			q = q.Where("pp.year IS NULL")
		} else if f.Year != nil {
			q = q.Where("pp.year = ?", *f.Year)
		}
	}

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("companies.name_ru LIKE ? OR companies.name_kz LIKE ? OR companies.bin LIKE ?", like, like, like)
	}
	return q
}
