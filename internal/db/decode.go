package db

import "fmt"

// decodeAll decodes docs into records of type T, assigning document IDs
// through setID.
func decodeAll[T any](docs []*Document, setID func(*T, string)) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeOne(doc, setID)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeOne[T any](doc *Document, setID func(*T, string)) (*T, error) {
	var rec T
	if err := doc.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode document '%s': %w", doc.ID, err)
	}
	setID(&rec, doc.ID)
	return &rec, nil
}
