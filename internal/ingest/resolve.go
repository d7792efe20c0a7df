package ingest

import (
	"strings"

	"github.com/vanshika/venmito/backend/internal/domain"
)

// contactIndex maps the two soft contact keys back to canonical person
// identifiers. Built once per run; dependent streams resolve against it
// instead of scanning the person table.
type contactIndex struct {
	emailToID map[string]int
	phoneToID map[string]int
	byID      map[int]domain.Person
}

// buildContactIndex indexes the canonical people by email and phone.
// Duplicate contact values resolve last-write-wins and are counted as
// data-quality warnings.
func buildContactIndex(people []domain.Person, report *domain.ValidationReport) contactIndex {
	idx := contactIndex{
		emailToID: make(map[string]int, len(people)),
		phoneToID: make(map[string]int, len(people)),
		byID:      make(map[int]domain.Person, len(people)),
	}
	for _, p := range people {
		idx.byID[p.ID] = p
		if p.Email != nil {
			key := strings.ToLower(*p.Email)
			if _, exists := idx.emailToID[key]; exists {
				report.Add(domain.ViolationDuplicateEmailKey)
			}
			idx.emailToID[key] = p.ID
		}
		if p.Phone != nil {
			if _, exists := idx.phoneToID[*p.Phone]; exists {
				report.Add(domain.ViolationDuplicatePhoneKey)
			}
			idx.phoneToID[*p.Phone] = p.ID
		}
	}
	return idx
}

func (idx contactIndex) lookupEmail(email string) (domain.Person, bool) {
	id, ok := idx.emailToID[strings.ToLower(email)]
	if !ok {
		return domain.Person{}, false
	}
	return idx.byID[id], true
}

func (idx contactIndex) lookupPhone(phone string) (domain.Person, bool) {
	id, ok := idx.phoneToID[phone]
	if !ok {
		return domain.Person{}, false
	}
	return idx.byID[id], true
}

// resolvePromotions links each promotion to a canonical person through its
// contact key, email first and phone second, then back-fills whichever of the
// two contact fields the row was missing from the matched person. Rows that
// match neither key are kept untouched and counted as unresolved.
func resolvePromotions(promotions []domain.Promotion, idx contactIndex, report *domain.ValidationReport) {
	for i := range promotions {
		promo := &promotions[i]

		var person domain.Person
		found := false
		if promo.ClientEmail != nil {
			person, found = idx.lookupEmail(*promo.ClientEmail)
		}
		if !found && promo.Phone != nil {
			person, found = idx.lookupPhone(*promo.Phone)
		}
		if !found {
			report.Add(domain.ViolationPromotionUnresolved)
			continue
		}

		if promo.ClientEmail == nil && person.Email != nil {
			email := *person.Email
			promo.ClientEmail = &email
		}
		if promo.Phone == nil && person.Phone != nil {
			phone := *person.Phone
			promo.Phone = &phone
		}
	}
}

// resolveTransactions resolves each line item's customer strictly by phone;
// transactions never carry email. Unmatched phones leave CustomerID nil and
// the row in place.
func resolveTransactions(items []domain.TransactionLineItem, idx contactIndex, report *domain.ValidationReport) {
	for i := range items {
		item := &items[i]
		person, found := idx.lookupPhone(item.Phone)
		if !found {
			report.Add(domain.ViolationTxPhoneUnresolved)
			continue
		}
		id := person.ID
		item.CustomerID = &id
	}
}
