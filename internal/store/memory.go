package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vanshika/venmito/backend/internal/domain"
)

// MemoryStore keeps the dataset in process memory. It backs unit tests and
// local runs that do not need a database file; queries behave like the SQLite
// implementation.
type MemoryStore struct {
	mu sync.RWMutex
	ds domain.Dataset
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ReplaceDataset swaps the entire dataset in one step.
func (m *MemoryStore) ReplaceDataset(_ context.Context, ds domain.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ds = domain.Dataset{
		People:       append([]domain.Person(nil), ds.People...),
		Promotions:   append([]domain.Promotion(nil), ds.Promotions...),
		Transactions: append([]domain.TransactionLineItem(nil), ds.Transactions...),
		Transfers:    append([]domain.Transfer(nil), ds.Transfers...),
	}
	return nil
}

// ListPeople returns people matching the filter.
func (m *MemoryStore) ListPeople(_ context.Context, filter PersonFilter) ([]domain.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []domain.Person
	for _, p := range m.ds.People {
		if !containsFold(p.FirstName, filter.FirstName) ||
			!containsFold(p.Surname, filter.Surname) ||
			!containsFoldOpt(p.City, filter.City) ||
			!containsFoldOpt(p.Country, filter.Country) {
			continue
		}
		if !hasDevices(p, filter.Devices) {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}

// ListPromotions returns promotions matching the filter.
func (m *MemoryStore) ListPromotions(_ context.Context, filter PromotionFilter) ([]domain.Promotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []domain.Promotion
	for _, promo := range m.ds.Promotions {
		if !containsFold(promo.Promotion, filter.Promotion) ||
			!containsFoldOpt(promo.ClientEmail, filter.Email) {
			continue
		}
		if len(filter.Responded) > 0 && !responseIn(promo.Responded, filter.Responded) {
			continue
		}
		results = append(results, promo)
	}
	return results, nil
}

// ListTransactions returns transaction line items matching the filter.
func (m *MemoryStore) ListTransactions(_ context.Context, filter TransactionFilter) ([]domain.TransactionLineItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []domain.TransactionLineItem
	for _, item := range m.ds.Transactions {
		if filter.TransactionID != nil && item.TransactionID != *filter.TransactionID {
			continue
		}
		if filter.CustomerID != nil && (item.CustomerID == nil || *item.CustomerID != *filter.CustomerID) {
			continue
		}
		if !containsFold(item.Store, filter.Store) || !containsFold(item.ItemName, filter.ItemName) {
			continue
		}
		results = append(results, item)
	}
	return results, nil
}

// ListTransfers returns transfers matching the filter.
func (m *MemoryStore) ListTransfers(_ context.Context, filter TransferFilter) ([]domain.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []domain.Transfer
	for _, transfer := range m.ds.Transfers {
		if filter.SenderID != nil && transfer.SenderID != *filter.SenderID {
			continue
		}
		if filter.RecipientID != nil && transfer.RecipientID != *filter.RecipientID {
			continue
		}
		if filter.DateAfter != nil && transfer.Date.Before(*filter.DateAfter) {
			continue
		}
		if filter.DateBefore != nil && transfer.Date.After(*filter.DateBefore) {
			continue
		}
		results = append(results, transfer)
	}
	return results, nil
}

// SpendByCountry sums transaction totals per customer country, highest spend
// first. Line items whose phone resolved to no customer are excluded.
func (m *MemoryStore) SpendByCountry(_ context.Context) ([]CountrySpend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	countryByID := make(map[int]string, len(m.ds.People))
	for _, p := range m.ds.People {
		if p.Country != nil {
			countryByID[p.ID] = *p.Country
		}
	}

	totals := make(map[string]float64)
	for _, item := range m.ds.Transactions {
		if item.CustomerID == nil {
			continue
		}
		country, ok := countryByID[*item.CustomerID]
		if !ok {
			continue
		}
		totals[country] += item.TotalPrice
	}

	results := make([]CountrySpend, 0, len(totals))
	for country, total := range totals {
		results = append(results, CountrySpend{Country: country, TotalSpent: total})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalSpent != results[j].TotalSpent {
			return results[i].TotalSpent > results[j].TotalSpent
		}
		return results[i].Country < results[j].Country
	})
	return results, nil
}

// PromotionResponseStats counts response states per promotion name, ordered
// by promotion name.
func (m *MemoryStore) PromotionResponseStats(_ context.Context) ([]PromotionResponseStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byName := make(map[string]*PromotionResponseStat)
	for _, promo := range m.ds.Promotions {
		stat, ok := byName[promo.Promotion]
		if !ok {
			stat = &PromotionResponseStat{Promotion: promo.Promotion}
			byName[promo.Promotion] = stat
		}
		switch promo.Responded {
		case domain.ResponseYes:
			stat.Yes++
		case domain.ResponseNo:
			stat.No++
		default:
			stat.Unknown++
		}
	}

	results := make([]PromotionResponseStat, 0, len(byName))
	for _, stat := range byName {
		results = append(results, *stat)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Promotion < results[j].Promotion })
	return results, nil
}

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close(context.Context) error { return nil }

func containsFold(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

func containsFoldOpt(value *string, filter string) bool {
	if filter == "" {
		return true
	}
	if value == nil {
		return false
	}
	return containsFold(*value, filter)
}

func responseIn(response domain.Response, allowed []domain.Response) bool {
	for _, candidate := range allowed {
		if response == candidate {
			return true
		}
	}
	return false
}

func hasDevices(p domain.Person, devices []string) bool {
	for _, device := range devices {
		switch strings.ToLower(strings.TrimSpace(device)) {
		case "android":
			if !p.Android {
				return false
			}
		case "iphone":
			if !p.IPhone {
				return false
			}
		case "desktop":
			if !p.Desktop {
				return false
			}
		}
	}
	return true
}
