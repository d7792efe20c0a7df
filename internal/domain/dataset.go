package domain

// Dataset bundles the four normalized tables produced by one ingestion run.
// The persistence sink replaces the prior contents of every table with these
// rows; nothing is appended incrementally.
type Dataset struct {
	People       []Person
	Promotions   []Promotion
	Transactions []TransactionLineItem
	Transfers    []Transfer
}

// Violation categories accumulated into the ValidationReport. None of them
// aborts a run; they are data-quality signals emitted alongside the output.
const (
	ViolationRowMalformed        = "row_malformed"
	ViolationDuplicatePersonID   = "duplicate_person_id"
	ViolationDuplicateEmailKey   = "duplicate_email_key"
	ViolationDuplicatePhoneKey   = "duplicate_phone_key"
	ViolationPromotionUnresolved = "promotion_unresolved_contact"
	ViolationTxPhoneUnresolved   = "transaction_unresolved_phone"
	ViolationUnknownSenderID     = "transfer_unknown_sender"
	ViolationUnknownRecipientID  = "transfer_unknown_recipient"
	ViolationLineTotalMismatch   = "transaction_total_mismatch"
)

// ValidationReport maps violation categories to occurrence counts for one run.
// NullCounts tracks missing values per "table.column".
type ValidationReport struct {
	RunID      string
	Counts     map[string]int
	NullCounts map[string]int
}

// NewValidationReport returns an empty report for the given run.
func NewValidationReport(runID string) *ValidationReport {
	return &ValidationReport{
		RunID:      runID,
		Counts:     make(map[string]int),
		NullCounts: make(map[string]int),
	}
}

// Add increments the count for a violation category.
func (r *ValidationReport) Add(category string) {
	r.Counts[category]++
}

// AddN increments the count for a violation category by n.
func (r *ValidationReport) AddN(category string, n int) {
	if n > 0 {
		r.Counts[category] += n
	}
}

// AddNull increments the missing-value count for a table column.
func (r *ValidationReport) AddNull(table, column string) {
	r.NullCounts[table+"."+column]++
}

// Total returns the sum of all violation counts (null counts excluded).
func (r *ValidationReport) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}
