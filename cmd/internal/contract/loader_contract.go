package contract

// LoadRequest triggers a reconciliation load for one BIN.
type LoadRequest struct {
	BIN string `json:"bin" validate:"required,numeric,len=12"`
}

const (
	LoadStatusCreated = "created"
	LoadStatusUpdated = "updated"

	// LoadStatusDeleted means the source marks the entity deleted; local
	// data is left untouched and the outcome is informational only.
	LoadStatusDeleted = "deleted"
)

type LoadResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	BIN       string `json:"bin"`
	CompanyID uint   `json:"company_id,omitempty"`
}
