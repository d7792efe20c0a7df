package ingest

import (
	"math"

	"github.com/vanshika/venmito/backend/internal/domain"
)

// lineTotalTolerance is the relative tolerance allowed between a line item's
// stored total and quantity × unit price.
const lineTotalTolerance = 1e-6

// validateDataset runs the integrity checks over the resolved dataset and
// records every finding in the report. Violations never remove rows or abort
// the run; reconciliation is best-effort and the report travels with the
// output.
func validateDataset(ds domain.Dataset, idx contactIndex, report *domain.ValidationReport) {
	for _, p := range ds.People {
		countNull(report, "people", "email", p.Email == nil)
		countNull(report, "people", "phone", p.Phone == nil)
		countNull(report, "people", "city", p.City == nil)
		countNull(report, "people", "country", p.Country == nil)
	}

	for _, promo := range ds.Promotions {
		countNull(report, "promotions", "client_email", promo.ClientEmail == nil)
		countNull(report, "promotions", "phone", promo.Phone == nil)
	}

	for _, item := range ds.Transactions {
		countNull(report, "transactions", "customer_id", item.CustomerID == nil)
		if !lineTotalConsistent(item) {
			report.Add(domain.ViolationLineTotalMismatch)
		}
	}

	for _, transfer := range ds.Transfers {
		if _, ok := idx.byID[transfer.SenderID]; !ok {
			report.Add(domain.ViolationUnknownSenderID)
		}
		if _, ok := idx.byID[transfer.RecipientID]; !ok {
			report.Add(domain.ViolationUnknownRecipientID)
		}
	}
}

// lineTotalConsistent checks total_price against quantity × price_per_item
// within the relative tolerance. Mismatches are flagged, never silently
// corrected.
func lineTotalConsistent(item domain.TransactionLineItem) bool {
	expected := float64(item.Quantity) * item.PricePerItem
	diff := math.Abs(item.TotalPrice - expected)
	limit := lineTotalTolerance * math.Max(1, math.Abs(item.TotalPrice))
	return diff <= limit
}

func countNull(report *domain.ValidationReport, table, column string, isNull bool) {
	if isNull {
		report.AddNull(table, column)
	}
}
