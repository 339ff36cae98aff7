package models

// Owner values a trade record can carry. The block scanner cannot attribute
// ownership, so records start as OwnerUndetermined and may be upgraded by the
// whole-text pass.
const (
	OwnerSelf         = "Self"
	OwnerSpouse       = "Spouse"
	OwnerUndetermined = "undetermined"
)

// UnknownField marks a header field that was absent from the source document.
// It is distinct from the empty string, which never means "unknown".
const UnknownField = "unknown"

// Transaction type codes used by the source documents.
const (
	TxTypePurchase = "P"
	TxTypeSale     = "S"
	TxTypeExchange = "E"
)

// TradeRecord is one parsed transaction from a disclosure document. All
// fields hold the strings found in the document; dates are not validated
// here, segmentation and validation are separate concerns.
type TradeRecord struct {
	FilerName        string `json:"filer_name"`
	StateDistrict    string `json:"state_district"`
	Owner            string `json:"owner"`
	Asset            string `json:"asset"`
	TransactionType  string `json:"transaction_type"`
	TransactionDate  string `json:"transaction_date"`
	NotificationDate string `json:"notification_date"`
	Amount           string `json:"amount"`
}

// Filing records that one document contributed to a filer's aggregate.
type Filing struct {
	Year  string `json:"year"`
	DocID string `json:"doc_id"`
}

// FilerAggregate is the unit of cache persistence: everything discovered so
// far for one filer. Mutated only by the cache builder; read-only elsewhere.
type FilerAggregate struct {
	Filings      []Filing      `json:"filings"`
	Transactions []TradeRecord `json:"transactions"`
}

// TradeCache maps the sanitized filer directory name (Last_First) to that
// filer's aggregate.
type TradeCache map[string]*FilerAggregate

// DocumentRef identifies one source document discovered by the locator.
type DocumentRef struct {
	Filer string
	Year  string
	Path  string
}
