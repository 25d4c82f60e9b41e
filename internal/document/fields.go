package document

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Columns returns the top-level keys of docs in first-seen order
func Columns(docs []bson.D) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, doc := range docs {
		for _, e := range doc {
			if !seen[e.Key] {
				seen[e.Key] = true
				columns = append(columns, e.Key)
			}
		}
	}
	return columns
}

// Lookup returns the value of a top-level key
func Lookup(doc bson.D, key string) (any, bool) {
	for _, e := range doc {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Rows formats docs as table rows over columns; missing fields are blank
func Rows(docs []bson.D, columns []string) [][]string {
	rows := make([][]string, len(docs))
	for i, doc := range docs {
		row := make([]string, len(columns))
		for j, col := range columns {
			if v, ok := Lookup(doc, col); ok {
				row[j] = FormatValue(v)
			}
		}
		rows[i] = row
	}
	return rows
}

// Map converts a document to a map for in-memory evaluation
func Map(doc bson.D) map[string]any {
	m := make(map[string]any, len(doc))
	for _, e := range doc {
		m[e.Key] = e.Value
	}
	return m
}
