package domain

// ExtractionServiceCandidate is one service line as read off the document
type ExtractionServiceCandidate struct {
	RawName  string  `json:"rawName"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes,omitempty"`
}

// ExtractionResult is the unvalidated output of the AI extraction.
// It is never persisted as-is.
type ExtractionResult struct {
	General               GeneralInfo                  `json:"general"`
	Services              []ExtractionServiceCandidate `json:"services"`
	Itinerary             []ItineraryItem              `json:"itinerary"`
	OtherExpenses         []Expense                    `json:"otherExpenses"`
	Advance               float64                      `json:"advance"`
	CollectionsForCompany float64                      `json:"collectionsForCompany"`
	CompanyTip            float64                      `json:"companyTip"`
}

// MatchedService pairs a candidate with its catalog entry, if any.
// Discrepancy is NormalizedPrice minus the document price.
type MatchedService struct {
	Candidate       ExtractionServiceCandidate `json:"candidate"`
	Service         *Service                   `json:"service,omitempty"`
	NormalizedPrice float64                    `json:"normalizedPrice"`
	Discrepancy     float64                    `json:"discrepancy"`
}

// Matched reports whether a catalog entry was found
func (m MatchedService) Matched() bool {
	return m.Service != nil
}
