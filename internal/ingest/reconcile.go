package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanshika/venmito/backend/internal/domain"
)

// RawPerson is one person row from a single source before the merge. Any
// field other than the identifier may be absent; pointers keep absence
// distinct from zero values so the merge can tell "false" from "unknown".
// RawPerson values are owned by the reconciler and discarded after the merge.
type RawPerson struct {
	ID        int
	Email     *string
	Phone     *string
	FirstName *string
	Surname   *string
	City      *string
	Country   *string
	Android   *bool
	IPhone    *bool
	Desktop   *bool
}

// personFromRecord maps a normalized RawRecord onto a RawPerson, coercing
// types. A row without a usable identifier is malformed.
func personFromRecord(rec RawRecord) (RawPerson, error) {
	id, err := rec.Int("id")
	if err != nil {
		return RawPerson{}, fmt.Errorf("person row: %w", err)
	}
	return RawPerson{
		ID:        id,
		Email:     normalizeOptEmail(rec.optString("email")),
		Phone:     rec.optString("phone"),
		FirstName: rec.optString("firstname"),
		Surname:   rec.optString("surname"),
		City:      rec.optString("city"),
		Country:   rec.optString("country"),
		Android:   rec.optBool("android"),
		IPhone:    rec.optBool("iphone"),
		Desktop:   rec.optBool("desktop"),
	}, nil
}

// normalizeOptEmail lowercases an optional email so contact-key joins are
// case-insensitive.
func normalizeOptEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}

// mergeRule combines one canonical field from two source records with a fixed
// precedence: the primary source's value wins when present, otherwise the
// secondary's, otherwise the field stays null. The table below is the
// authoritative precedence list for the whole run; keeping it explicit makes
// the merge auditable field by field.
type mergeRule struct {
	field string
	apply func(dst *domain.Person, primary, secondary RawPerson)
}

var personMergeRules = []mergeRule{
	{"email", func(dst *domain.Person, a, b RawPerson) { dst.Email = coalesce(a.Email, b.Email) }},
	{"phone", func(dst *domain.Person, a, b RawPerson) { dst.Phone = coalesce(a.Phone, b.Phone) }},
	{"firstname", func(dst *domain.Person, a, b RawPerson) { dst.FirstName = orEmpty(coalesce(a.FirstName, b.FirstName)) }},
	{"surname", func(dst *domain.Person, a, b RawPerson) { dst.Surname = orEmpty(coalesce(a.Surname, b.Surname)) }},
	{"city", func(dst *domain.Person, a, b RawPerson) { dst.City = coalesce(a.City, b.City) }},
	{"country", func(dst *domain.Person, a, b RawPerson) { dst.Country = coalesce(a.Country, b.Country) }},
	{"android", func(dst *domain.Person, a, b RawPerson) { dst.Android = orFalse(coalesce(a.Android, b.Android)) }},
	{"iphone", func(dst *domain.Person, a, b RawPerson) { dst.IPhone = orFalse(coalesce(a.IPhone, b.IPhone)) }},
	{"desktop", func(dst *domain.Person, a, b RawPerson) { dst.Desktop = orFalse(coalesce(a.Desktop, b.Desktop)) }},
}

// coalesce returns the primary value when present, the secondary otherwise.
func coalesce[T any](primary, secondary *T) *T {
	if primary != nil {
		return primary
	}
	return secondary
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// orFalse materializes a tri-state device flag: a flag no source reported is
// recorded as false on the canonical person.
func orFalse(b *bool) bool {
	return b != nil && *b
}

// MergePeople reconciles the two person sources into one canonical person per
// identifier. The join is an outer join on id: a person appearing in only one
// source is still included, with nulls for the other source's fields. Source
// A takes precedence for every field. Duplicate ids within a single source
// resolve last-write-wins and are counted as a data-quality warning. Output
// is ordered by ascending identifier so re-running on the same inputs yields
// identical output.
func MergePeople(sourceA, sourceB []RawPerson, report *domain.ValidationReport) []domain.Person {
	byIDA := indexByID(sourceA, report)
	byIDB := indexByID(sourceB, report)

	ids := make([]int, 0, len(byIDA)+len(byIDB))
	seen := make(map[int]struct{}, len(byIDA)+len(byIDB))
	for id := range byIDA {
		ids = append(ids, id)
		seen[id] = struct{}{}
	}
	for id := range byIDB {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	people := make([]domain.Person, 0, len(ids))
	for _, id := range ids {
		a := byIDA[id] // zero RawPerson when absent; all fields nil
		b := byIDB[id]
		person := domain.Person{ID: id}
		for _, rule := range personMergeRules {
			rule.apply(&person, a, b)
		}
		people = append(people, person)
	}
	return people
}

func indexByID(people []RawPerson, report *domain.ValidationReport) map[int]RawPerson {
	byID := make(map[int]RawPerson, len(people))
	for _, p := range people {
		if _, exists := byID[p.ID]; exists {
			report.Add(domain.ViolationDuplicatePersonID)
		}
		byID[p.ID] = p
	}
	return byID
}
