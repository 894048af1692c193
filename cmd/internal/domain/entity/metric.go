package entity

// MetricPoint is one year/value observation of any metric series.
type MetricPoint struct {
	Year  int
	Value float64
}

// The four yearly metric series are kept as parallel tables, one per
// series, exactly as the registry reports them. The loader only ever
// appends years newer than the stored maximum, so rows are immutable
// once written.

type TaxMetric struct {
	ID        uint    `gorm:"primaryKey"`
	CompanyID uint    `gorm:"not null;uniqueIndex:idx_tax_company_year"`
	Year      int     `gorm:"not null;uniqueIndex:idx_tax_company_year"`
	Value     float64 `gorm:"not null"`
}

type VatMetric struct {
	ID        uint    `gorm:"primaryKey"`
	CompanyID uint    `gorm:"not null;uniqueIndex:idx_vat_company_year"`
	Year      int     `gorm:"not null;uniqueIndex:idx_vat_company_year"`
	Value     float64 `gorm:"not null"`
}

// SupplierMetric is the yearly public-procurement volume where the company
// acted as a supplier.
type SupplierMetric struct {
	ID        uint    `gorm:"primaryKey"`
	CompanyID uint    `gorm:"not null;uniqueIndex:idx_supplier_company_year"`
	Year      int     `gorm:"not null;uniqueIndex:idx_supplier_company_year"`
	Value     float64 `gorm:"not null"`
}

// CustomerMetric is the yearly public-procurement volume where the company
// acted as a customer.
type CustomerMetric struct {
	ID        uint    `gorm:"primaryKey"`
	CompanyID uint    `gorm:"not null;uniqueIndex:idx_customer_company_year"`
	Year      int     `gorm:"not null;uniqueIndex:idx_customer_company_year"`
	Value     float64 `gorm:"not null"`
}
