package store

import (
	"context"
	"errors"
	"time"

	"github.com/vanshika/venmito/backend/internal/domain"
)

// PersonFilter narrows the people listing. String filters are
// case-insensitive substring matches; Devices requires every named device
// flag to be set (android, iphone, desktop).
type PersonFilter struct {
	FirstName string
	Surname   string
	City      string
	Country   string
	Devices   []string
}

// PromotionFilter narrows the promotion listing. Responded is a multi-select:
// a row matches when its response state equals any of the requested values.
type PromotionFilter struct {
	Promotion string
	Email     string
	Responded []domain.Response
}

// TransactionFilter narrows the transaction line-item listing.
type TransactionFilter struct {
	TransactionID *int
	CustomerID    *int
	Store         string
	ItemName      string
}

// TransferFilter narrows the transfer listing. Date bounds are inclusive.
type TransferFilter struct {
	SenderID    *int
	RecipientID *int
	DateAfter   *time.Time
	DateBefore  *time.Time
}

// CountrySpend aggregates transaction totals by the customer's country.
type CountrySpend struct {
	Country    string
	TotalSpent float64
}

// PromotionResponseStat counts response states per promotion name.
type PromotionResponseStat struct {
	Promotion string
	Yes       int
	No        int
	Unknown   int
}

// ErrUnknownDriver indicates an unsupported store driver name in config.
var ErrUnknownDriver = errors.New("unknown store driver")

// Store owns the physical representation of the four logical tables. Writes
// follow the full-replace contract: ReplaceDataset discards each table's
// prior contents and installs the rows from the current run atomically.
type Store interface {
	ReplaceDataset(ctx context.Context, ds domain.Dataset) error

	ListPeople(ctx context.Context, filter PersonFilter) ([]domain.Person, error)
	ListPromotions(ctx context.Context, filter PromotionFilter) ([]domain.Promotion, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.TransactionLineItem, error)
	ListTransfers(ctx context.Context, filter TransferFilter) ([]domain.Transfer, error)

	SpendByCountry(ctx context.Context) ([]CountrySpend, error)
	PromotionResponseStats(ctx context.Context) ([]PromotionResponseStat, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
