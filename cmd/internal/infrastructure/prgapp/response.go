package prgapp

import (
	"strings"
	"time"

	"binregistry/cmd/internal/domain/entity"
)

// CompanyInfo is the nested company profile document. Only the documented
// key paths are mapped; anything else the API returns is ignored. Missing
// or null keys simply leave their fields zero, which is how every optional
// extraction below degrades to "absent" instead of failing.
type CompanyInfo struct {
	BasicInfo        basicInfo    `json:"basicInfo"`
	GosZakupContacts contactBlock `json:"gosZakupContacts"`
	EgovContacts     contactBlock `json:"egovContacts"`
	Taxes            taxBlock     `json:"taxes"`
}

// ProcurementGraph is the procurement-activity document.
type ProcurementGraph struct {
	AsSupplier []YearValue `json:"asSupplier"`
	AsCustomer []YearValue `json:"asCustomer"`
}

type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

type basicInfo struct {
	BIN              string    `json:"bin"`
	IsDeleted        bool      `json:"isDeleted"`
	TitleRu          textValue `json:"titleRu"`
	TitleKz          textValue `json:"titleKz"`
	RegistrationDate textValue `json:"registrationDate"`
	CEO              ceoValue  `json:"ceo"`
	IsNds            boolValue `json:"isNds"`
	DegreeOfRisk     textValue `json:"degreeOfRisk"`
	Address          textValue `json:"address"`
	Krp              codeValue `json:"krp"`
	Kse              codeValue `json:"kse"`
	Kfc              codeValue `json:"kfc"`
	Kato             codeValue `json:"kato"`
	PrimaryOKED      textValue `json:"primaryOKED"`
	SecondaryOKED    listValue `json:"secondaryOKED"`
}

type textValue struct {
	Value string `json:"value"`
}

type boolValue struct {
	Value *bool `json:"value"`
}

type ceoValue struct {
	Value struct {
		Title string `json:"title"`
	} `json:"value"`
}

type codeValue struct {
	Value struct {
		Value       string `json:"value"`
		Description string `json:"description"`
	} `json:"value"`
}

type listValue struct {
	Value []string `json:"value"`
}

type contactBlock struct {
	Phone []textValue `json:"phone"`
	Email []textValue `json:"email"`
}

type taxBlock struct {
	TaxGraph []YearValue `json:"taxGraph"`
	NdsGraph []YearValue `json:"ndsGraph"`
}

func (c *CompanyInfo) BIN() string { return c.BasicInfo.BIN }

func (c *CompanyInfo) IsDeleted() bool { return c.BasicInfo.IsDeleted }

func (c *CompanyInfo) NameRu() string { return c.BasicInfo.TitleRu.Value }

func (c *CompanyInfo) NameKz() string { return c.BasicInfo.TitleKz.Value }

func (c *CompanyInfo) CEO() string { return c.BasicInfo.CEO.Value.Title }

func (c *CompanyInfo) PayNDS() *bool { return c.BasicInfo.IsNds.Value }

func (c *CompanyInfo) TaxRisk() string { return c.BasicInfo.DegreeOfRisk.Value }

func (c *CompanyInfo) Address() string { return c.BasicInfo.Address.Value }

// RegisterDate parses the ISO registration date. Any parse failure yields
// nil; a bad date never fails the load.
func (c *CompanyInfo) RegisterDate() *time.Time {
	raw := c.BasicInfo.RegistrationDate.Value
	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// PhoneNumber prefers the procurement contact phone and falls back to the
// e-government one.
func (c *CompanyInfo) PhoneNumber() string {
	if len(c.GosZakupContacts.Phone) > 0 {
		return c.GosZakupContacts.Phone[0].Value
	}
	if len(c.EgovContacts.Phone) > 0 {
		return c.EgovContacts.Phone[0].Value
	}
	return ""
}

func (c *CompanyInfo) EmailAddress() string {
	if len(c.GosZakupContacts.Email) > 0 {
		return c.GosZakupContacts.Email[0].Value
	}
	return ""
}

// CodeName is one classifier code/description pair from the profile.
type CodeName struct {
	Code string
	Name string
}

func (c *CompanyInfo) SizeClass() CodeName { return toCodeName(c.BasicInfo.Krp) }

func (c *CompanyInfo) EconomicSector() CodeName { return toCodeName(c.BasicInfo.Kse) }

func (c *CompanyInfo) OwnershipForm() CodeName { return toCodeName(c.BasicInfo.Kfc) }

func (c *CompanyInfo) Territory() CodeName { return toCodeName(c.BasicInfo.Kato) }

func (c *CompanyInfo) PrimaryActivityToken() string {
	return c.BasicInfo.PrimaryOKED.Value
}

func (c *CompanyInfo) SecondaryActivityTokens() []string {
	return c.BasicInfo.SecondaryOKED.Value
}

func (c *CompanyInfo) TaxPoints() []entity.MetricPoint {
	return toPoints(c.Taxes.TaxGraph)
}

func (c *CompanyInfo) VatPoints() []entity.MetricPoint {
	return toPoints(c.Taxes.NdsGraph)
}

func (g *ProcurementGraph) SupplierPoints() []entity.MetricPoint {
	return toPoints(g.AsSupplier)
}

func (g *ProcurementGraph) CustomerPoints() []entity.MetricPoint {
	return toPoints(g.AsCustomer)
}

// ParseActivityToken splits a "<code> <name>" activity token. Malformed
// tokens (no separator, empty code) report ok == false and are skipped by
// the loader.
func ParseActivityToken(token string) (code, name string, ok bool) {
	token = strings.TrimSpace(token)
	code, name, found := strings.Cut(token, " ")
	if !found || code == "" || strings.TrimSpace(name) == "" {
		return "", "", false
	}
	return code, strings.TrimSpace(name), true
}

func toCodeName(v codeValue) CodeName {
	return CodeName{Code: v.Value.Value, Name: v.Value.Description}
}

func toPoints(vals []YearValue) []entity.MetricPoint {
	points := make([]entity.MetricPoint, len(vals))
	for i, v := range vals {
		points[i] = entity.MetricPoint{Year: v.Year, Value: v.Value}
	}
	return points
}
