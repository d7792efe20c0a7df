package ingest

import (
	"strings"
	"testing"
)

const peopleJSONFixture = `[
  {
    "id": "0001",
    "first_name": "Ann",
    "last_name": "Lee",
    "telephone": "555-0001",
    "email": "Ann.Lee@Example.com",
    "devices": ["Android", "Desktop"],
    "location": {"City": "Berlin", "Country": "Germany"}
  },
  {
    "id": "0002",
    "first_name": "Bob",
    "devices": [],
    "location": {"City": "Oslo", "Country": "Norway"}
  },
  {
    "first_name": "NoID"
  }
]`

func TestReadPeopleJSON(t *testing.T) {
	people, skipped, err := ReadPeopleJSON(strings.NewReader(peopleJSONFixture))
	if err != nil {
		t.Fatalf("ReadPeopleJSON returned error: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", skipped)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}

	ann := people[0]
	if ann.ID != 1 {
		t.Fatalf("expected id 1, got %d", ann.ID)
	}
	if ann.Email == nil || *ann.Email != "ann.lee@example.com" {
		t.Errorf("expected normalized email, got %v", ann.Email)
	}
	if ann.Phone == nil || *ann.Phone != "555-0001" {
		t.Errorf("expected telephone mapped to phone, got %v", ann.Phone)
	}
	if ann.FirstName == nil || *ann.FirstName != "Ann" {
		t.Errorf("expected first name Ann, got %v", ann.FirstName)
	}
	if ann.Surname == nil || *ann.Surname != "Lee" {
		t.Errorf("expected surname Lee, got %v", ann.Surname)
	}
	if ann.City == nil || *ann.City != "Berlin" {
		t.Errorf("expected location flattened to city, got %v", ann.City)
	}
	if ann.Country == nil || *ann.Country != "Germany" {
		t.Errorf("expected location flattened to country, got %v", ann.Country)
	}
	if ann.Android == nil || !*ann.Android {
		t.Error("expected Android device flag true")
	}
	if ann.Desktop == nil || !*ann.Desktop {
		t.Error("expected Desktop device flag true")
	}
	if ann.IPhone != nil {
		t.Error("expected absent device to stay unknown, not false")
	}

	bob := people[1]
	if bob.Email != nil || bob.Phone != nil {
		t.Error("expected missing contact fields to stay nil")
	}
	if bob.Surname != nil {
		t.Error("expected missing surname to stay nil")
	}
}

func TestReadPeopleJSONUnparsableSource(t *testing.T) {
	if _, _, err := ReadPeopleJSON(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error for unparsable source")
	}
}

const peopleYAMLFixture = `- id: 1
  name: Ann Lee
  email: ann.lee@example.com
  phone: 555-0001
  city: Berlin, Germany
  Android: 1
  Iphone: 0
  Desktop: 1
- id: 2
  name: Cher
  city: Lisbon
  Android: 0
  Iphone: 0
  Desktop: 0
- name: missing id
`

func TestReadPeopleYAML(t *testing.T) {
	people, skipped, err := ReadPeopleYAML(strings.NewReader(peopleYAMLFixture))
	if err != nil {
		t.Fatalf("ReadPeopleYAML returned error: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", skipped)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}

	ann := people[0]
	if ann.FirstName == nil || *ann.FirstName != "Ann" {
		t.Errorf("expected combined name split into first name, got %v", ann.FirstName)
	}
	if ann.Surname == nil || *ann.Surname != "Lee" {
		t.Errorf("expected combined name split into surname, got %v", ann.Surname)
	}
	if ann.City == nil || *ann.City != "Berlin" {
		t.Errorf("expected combined city split, got %v", ann.City)
	}
	if ann.Country == nil || *ann.Country != "Germany" {
		t.Errorf("expected combined city split into country, got %v", ann.Country)
	}
	if ann.Android == nil || !*ann.Android {
		t.Error("expected Android flag coerced to true")
	}
	if ann.IPhone == nil || *ann.IPhone {
		t.Error("expected Iphone flag coerced to explicit false")
	}

	cher := people[1]
	if cher.FirstName == nil || *cher.FirstName != "Cher" {
		t.Errorf("expected single-token name kept as first name, got %v", cher.FirstName)
	}
	if cher.Surname != nil {
		t.Error("expected no surname for single-token name")
	}
	if cher.City == nil || *cher.City != "Lisbon" {
		t.Errorf("expected city without country, got %v", cher.City)
	}
	if cher.Country != nil {
		t.Error("expected country to stay nil when the combined field has no comma")
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in          string
		first, rest string
	}{
		{"Ann Lee", "Ann", "Lee"},
		{"Ann Marie van der Berg", "Ann", "Marie van der Berg"},
		{"Cher", "Cher", ""},
		{"  Ann   Lee  ", "Ann", "Lee"},
	}
	for _, tc := range cases {
		first, rest := splitName(tc.in)
		if first != tc.first || rest != tc.rest {
			t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tc.in, first, rest, tc.first, tc.rest)
		}
	}
}
