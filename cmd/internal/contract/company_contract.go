package contract

type CompanyResponse struct {
	ID           uint   `json:"id"`
	BIN          string `json:"bin"`
	NameRu       string `json:"name_ru"`
	NameKz       string `json:"name_kz"`
	RegisterDate string `json:"register_date,omitempty"`
	CEO          string `json:"ceo,omitempty"`
	PayNDS       *bool  `json:"pay_nds,omitempty"`
	TaxRisk      string `json:"tax_risk,omitempty"`
	Address      string `json:"address,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Email        string `json:"email,omitempty"`

	Territory       *ClassifierResponse   `json:"territory,omitempty"`
	OwnershipForm   *ClassifierResponse   `json:"ownership_form,omitempty"`
	EconomicSector  *ClassifierResponse   `json:"economic_sector,omitempty"`
	SizeClass       *ClassifierResponse   `json:"size_class,omitempty"`
	PrimaryActivity *ClassifierResponse   `json:"primary_activity,omitempty"`
	Industry        *ClassifierResponse   `json:"industry,omitempty"`
	SecondaryCodes  []*ClassifierResponse `json:"secondary_activities"`
	Products        []*ClassifierResponse `json:"products"`

	Contacts []*ContactResponse `json:"contacts"`

	Taxes           []*MetricPointResponse `json:"taxes"`
	Vat             []*MetricPointResponse `json:"vat"`
	SupplierVolumes []*MetricPointResponse `json:"procurement_as_supplier"`
	CustomerVolumes []*MetricPointResponse `json:"procurement_as_customer"`

	Participations []*ParticipationResponse `json:"program_participations"`

	UpdatedAt string `json:"updated_at"`
}

type CompanySummaryResponse struct {
	ID        uint   `json:"id"`
	BIN       string `json:"bin"`
	NameRu    string `json:"name_ru"`
	NameKz    string `json:"name_kz,omitempty"`
	Territory string `json:"territory,omitempty"`
	Activity  string `json:"activity,omitempty"`
}

type ClassifierResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Path string `json:"path"`
}

type ContactResponse struct {
	ID       uint                  `json:"id"`
	FullName string                `json:"full_name"`
	Position string                `json:"position,omitempty"`
	Notes    string                `json:"notes,omitempty"`
	Emails   []*ContactEntryOption `json:"emails"`
	Phones   []*ContactEntryOption `json:"phones"`
}

type ContactEntryOption struct {
	Value     string `json:"value"`
	IsPrimary bool   `json:"is_primary"`
	IsMailing bool   `json:"is_mailing"`
}

type MetricPointResponse struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

type ParticipationResponse struct {
	Program string `json:"program"`
	Year    *int   `json:"year"`
}
