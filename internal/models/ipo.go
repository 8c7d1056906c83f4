package models

import "time"

// IPO listing boards
const (
	BoardMain = "main"
	BoardSME  = "sme"
)

// Defaults for optional venue fields on the stable output schema.
const (
	VenueTBA       = "Exchange TBA"
	LeadManagerTBA = "Manager TBA"
)

// IpoRecord is the stored IPO row. The scraper has gone through several
// field-name revisions, so both the current and the legacy column sets
// are carried; ToAPI coalesces them onto the stable output schema.
type IpoRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Current scraper fields
	Company      string `gorm:"index" json:"company"`
	OpeningDate  string `json:"openingDate"`
	ClosingDate  string `json:"closingDate"`
	ListingDate  string `json:"listingDate"`
	IssuePriceRs string `json:"issuePriceRs"`
	IssueSizeCr  string `json:"issueSizeCr"`
	ListingAt    string `json:"listingAt"`
	LeadManager  string `json:"leadManager"`

	// Legacy field names kept for rows ingested by older scraper runs
	CompanyName string `json:"companyName"`
	OpenDate    string `json:"openDate"`
	CloseDate   string `json:"closeDate"`
	Exchange    string `json:"exchange"`
	IssueSize   string `json:"issueSize"`
	PriceBand   string `json:"priceBand"`
	LotSize     string `json:"lotSize"`
	IssueType   string `json:"issueType"`

	Status          string `gorm:"index" json:"status"`
	ISIN            string `gorm:"index" json:"isin"`
	GMP             string `json:"gmp"`
	EstListingPrice string `json:"estListingPrice"`
	EstListingGains string `json:"estListingGains"`

	Board      string    `gorm:"index;default:main" json:"board"`
	RecordID   int       `json:"recordId"`
	UploadedAt time.Time `gorm:"index" json:"uploadedAt"`
}

func (IpoRecord) TableName() string {
	return "ipos"
}

// IpoListing is the stable schema served to clients.
type IpoListing struct {
	Company         string    `json:"company"`
	OpeningDate     string    `json:"openingDate"`
	ClosingDate     string    `json:"closingDate"`
	ListingDate     string    `json:"listingDate"`
	IssuePrice      string    `json:"issuePrice"`
	IssueSize       string    `json:"issueSize"`
	ListingVenue    string    `json:"listingVenue"`
	LeadManager     string    `json:"leadManager"`
	Status          string    `json:"status"`
	ISIN            string    `json:"isin"`
	GMP             string    `json:"gmp"`
	EstListingPrice string    `json:"estListingPrice,omitempty"`
	EstListingGains string    `json:"estListingGains,omitempty"`
	PriceBand       string    `json:"priceBand,omitempty"`
	LotSize         string    `json:"lotSize,omitempty"`
	IssueType       string    `json:"issueType,omitempty"`
	Board           string    `json:"board"`
	UploadedAt      time.Time `json:"uploadedAt"`
}

// ToAPI maps a stored record onto the stable output schema, preferring
// current field names over legacy ones and filling documented defaults
// for absent optional fields.
func (r *IpoRecord) ToAPI() IpoListing {
	return IpoListing{
		Company:         firstNonEmpty(r.Company, r.CompanyName),
		OpeningDate:     firstNonEmpty(r.OpeningDate, r.OpenDate),
		ClosingDate:     firstNonEmpty(r.ClosingDate, r.CloseDate),
		ListingDate:     r.ListingDate,
		IssuePrice:      firstNonEmpty(r.IssuePriceRs, r.PriceBand),
		IssueSize:       firstNonEmpty(r.IssueSizeCr, r.IssueSize),
		ListingVenue:    firstNonEmpty(r.ListingAt, r.Exchange, VenueTBA),
		LeadManager:     firstNonEmpty(r.LeadManager, LeadManagerTBA),
		Status:          r.Status,
		ISIN:            r.ISIN,
		GMP:             r.GMP,
		EstListingPrice: r.EstListingPrice,
		EstListingGains: r.EstListingGains,
		PriceBand:       r.PriceBand,
		LotSize:         r.LotSize,
		IssueType:       r.IssueType,
		Board:           firstNonEmpty(r.Board, BoardMain),
		UploadedAt:      r.UploadedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
