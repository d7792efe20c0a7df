package ingest

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReadPeopleJSON parses the document-store person source (source A): a JSON
// array of person documents with a nested "location" object and a list-valued
// "devices" field. The location object is flattened into sibling city/country
// fields and each device name becomes its own boolean field. Returns the
// parsed rows plus the number of malformed rows skipped.
func ReadPeopleJSON(r io.Reader) ([]RawPerson, int, error) {
	var docs []map[string]any
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, 0, fmt.Errorf("parse person document source: %w", err)
	}

	people := make([]RawPerson, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		person, err := personFromRecord(flattenPersonDoc(doc))
		if err != nil {
			skipped++
			continue
		}
		people = append(people, person)
	}
	return people, skipped, nil
}

// flattenPersonDoc turns one nested person document into a flat RawRecord.
func flattenPersonDoc(doc map[string]any) RawRecord {
	rec := make(RawRecord, len(doc)+2)
	for name, value := range doc {
		switch FoldKey(name) {
		case "location":
			if loc, ok := value.(map[string]any); ok {
				for k, v := range loc {
					rec.Set(k, v)
				}
			}
		case "devices":
			if list, ok := value.([]any); ok {
				for _, entry := range list {
					if device, ok := entry.(string); ok && device != "" {
						rec.Set(device, true)
					}
				}
			}
		default:
			rec.Set(name, value)
		}
	}
	return rec
}
