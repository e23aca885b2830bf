package export

import (
	"encoding/json"
	"fmt"
)

// JSONSink writes amounts as decimal strings so no precision is lost.
type JSONSink struct{}

func (s *JSONSink) Render(doc Document) (Artifact, error) {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("encode quotation: %w", err)
	}

	return Artifact{
		Filename:    filename(doc.Quotation, FormatJSON),
		ContentType: "application/json",
		Body:        body,
	}, nil
}
