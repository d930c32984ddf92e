package record

import (
	"encoding/json"
	"fmt"

	domrec "github.com/kshdotdev/sift/internal/domain/record"
)

// recordDoc is the stored JSON shape of a record.
type recordDoc struct {
	Data     map[string]any `json:"data"`
	Revision int            `json:"revision"`
}

func recordToDoc(rec domrec.Record) recordDoc {
	return recordDoc{Data: rec.Data(), Revision: rec.Revision()}
}

// parseJSONGetResult decodes a JSON.GET "$" response, which wraps the
// document in a one-element array.
func parseJSONGetResult(id string, raw []byte) (domrec.Record, error) {
	var docs []recordDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domrec.Record{}, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	if len(docs) == 0 {
		return domrec.Record{}, fmt.Errorf("empty json.get result for record %s", id)
	}
	return domrec.Reconstruct(id, docs[0].Data, docs[0].Revision), nil
}
