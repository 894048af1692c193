package entity

// Taxonomy identifies one of the government classifier trees.
type Taxonomy string

const (
	TaxonomyTerritory       Taxonomy = "territory"        // KATO
	TaxonomyActivity        Taxonomy = "activity"         // OKED
	TaxonomyOwnershipForm   Taxonomy = "ownership_form"   // KFC
	TaxonomyEconomicSector  Taxonomy = "economic_sector"  // KSE
	TaxonomyProductCategory Taxonomy = "product_category" // TN VED
	TaxonomySizeClass       Taxonomy = "size_class"       // KRP
	TaxonomyIndustry        Taxonomy = "industry"
)

// PathSeparator terminates every code segment in ClassifierNode.Path.
const PathSeparator = "/"

var Taxonomies = []Taxonomy{
	TaxonomyTerritory,
	TaxonomyActivity,
	TaxonomyOwnershipForm,
	TaxonomyEconomicSector,
	TaxonomyProductCategory,
	TaxonomySizeClass,
	TaxonomyIndustry,
}

func IsValidTaxonomy(s string) bool {
	for _, t := range Taxonomies {
		if string(t) == s {
			return true
		}
	}
	return false
}

// ClassifierNode is one entry of a classifier tree. Codes are stable external
// identifiers, unique within their taxonomy. Path always holds the exact
// root-to-self code sequence, each segment followed by PathSeparator, so
// subtree queries are plain prefix matches and never need recursion.
type ClassifierNode struct {
	ID       uint     `gorm:"primaryKey"`
	Taxonomy Taxonomy `gorm:"not null;uniqueIndex:idx_classifier_taxonomy_code"`
	Code     string   `gorm:"not null;uniqueIndex:idx_classifier_taxonomy_code"`
	Name     string   `gorm:"not null"`
	ParentID *uint    `gorm:"index"`
	Path     string   `gorm:"not null;index"`

	// Relations
	Parent *ClassifierNode `gorm:"foreignKey:ParentID"`
}
