package ingest

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadPeopleYAML parses the YAML person source (source B): a sequence of
// person mappings carrying a combined "name" field and a combined
// "city, country" field. Both composites are split during normalization and
// the three device fields are coerced to booleans. Returns the parsed rows
// plus the number of malformed rows skipped.
func ReadPeopleYAML(r io.Reader) ([]RawPerson, int, error) {
	var docs []map[string]any
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil {
		return nil, 0, fmt.Errorf("parse person yaml source: %w", err)
	}

	people := make([]RawPerson, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		person, err := personFromRecord(normalizeYAMLPerson(doc))
		if err != nil {
			skipped++
			continue
		}
		people = append(people, person)
	}
	return people, skipped, nil
}

// normalizeYAMLPerson applies the YAML source's composite-field splits. The
// splits are idempotent: once a record carries firstname/surname the combined
// source fields no longer exist.
func normalizeYAMLPerson(doc map[string]any) RawRecord {
	rec := make(RawRecord, len(doc)+2)
	for name, value := range doc {
		switch FoldKey(name) {
		case "name":
			s, ok := value.(string)
			if !ok {
				continue
			}
			first, rest := splitName(s)
			rec.Set("firstname", first)
			if rest != "" {
				rec.Set("surname", rest)
			}
		case "city":
			s, ok := value.(string)
			if !ok {
				continue
			}
			city, country := splitCityCountry(s)
			rec.Set("city", city)
			if country != "" {
				rec.Set("country", country)
			}
		default:
			rec.Set(name, value)
		}
	}
	return rec
}

// splitName splits a combined full name on the first whitespace boundary.
func splitName(full string) (first, surname string) {
	full = strings.TrimSpace(full)
	if idx := strings.IndexAny(full, " \t"); idx >= 0 {
		return full[:idx], strings.TrimSpace(full[idx+1:])
	}
	return full, ""
}

// splitCityCountry splits a combined "City, Country" value on the first comma.
func splitCityCountry(combined string) (city, country string) {
	parts := strings.SplitN(combined, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		country = strings.TrimSpace(parts[1])
	}
	return city, country
}
