package appwrite

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/yaadplay/storefront/internal/repo/docstore"
)

// query is the JSON query syntax accepted by Appwrite 1.5+.
type query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute"`
	Values    []any  `json:"values"`
}

func encodeQueries(queries []docstore.Query) ([]string, error) {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		var method string
		switch q.Operator {
		case docstore.OpEqual:
			method = "equal"
		case docstore.OpSearch:
			method = "search"
		default:
			return nil, fmt.Errorf("unsupported query operator %q", q.Operator)
		}
		data, err := json.Marshal(query{Method: method, Attribute: q.Attribute, Values: []any{q.Value}})
		if err != nil {
			return nil, fmt.Errorf("encode query %s: %w", q, err)
		}
		out = append(out, string(data))
	}
	return out, nil
}
