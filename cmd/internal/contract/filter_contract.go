package contract

// CompanyFilterRequest carries the user's filter selections. Tree-backed
// axes reference a selected classifier node by id; the whole subtree of
// that node matches. A stale node id silently drops that axis instead of
// erroring.
type CompanyFilterRequest struct {
	TerritoryID      *uint  `json:"territory_id" query:"territory_id"`
	ActivityID       *uint  `json:"activity_id" query:"activity_id"`
	EconomicSectorID *uint  `json:"economic_sector_id" query:"economic_sector_id"`
	ProductID        *uint  `json:"product_id" query:"product_id"`
	IndustryID       *uint  `json:"industry_id" query:"industry_id"`
	OwnershipFormID  *uint  `json:"ownership_form_id" query:"ownership_form_id"`
	SizeClassID      *uint  `json:"size_class_id" query:"size_class_id"`
	ProgramID        *uint  `json:"program_id" query:"program_id"`
	Year             *int   `json:"year" query:"year"`
	NoYear           bool   `json:"no_year" query:"no_year"`
	Search           string `json:"search" query:"search" validate:"omitempty,max=256"`
}

// DrilldownResponse is one step of the stateless tree navigation: the
// currently selected node (if any), an "up" choice pointing at its parent
// (absent for roots and for the unselected state) and the next level of
// choices ordered by name.
type DrilldownResponse struct {
	Taxonomy string            `json:"taxonomy"`
	Selected *ChoiceResponse   `json:"selected,omitempty"`
	Up       *ChoiceResponse   `json:"up,omitempty"`
	Choices  []*ChoiceResponse `json:"choices"`
}

type ChoiceResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}

// ProgramOptionsResponse is the two-level program/year selector. Level one
// lists programs with at least one participation; once a program is chosen,
// level two lists its recorded years plus a "no year" bucket when rows
// without a year exist.
type ProgramOptionsResponse struct {
	Programs []*ChoiceResponse `json:"programs,omitempty"`
	Selected *ChoiceResponse   `json:"selected,omitempty"`
	Years    []*YearChoice     `json:"years,omitempty"`
}

type YearChoice struct {
	Year   *int   `json:"year"`
	Label  string `json:"label"`
	NoYear bool   `json:"no_year,omitempty"`
}

type ExportResponse struct {
	Key  string `json:"key"`
	Rows int    `json:"rows"`
}
