package pd

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/pembrokehq/reflect-backend/internal/reflection/rubric"
)

// SessionNotes is the payload stored on Session.Notes: free text, per-question
// responses keyed by question index or section title, and the participant's
// framework selection.
type SessionNotes struct {
	GenericNotes        string            `json:"generic_notes"`
	StructuredResponses map[string]string `json:"structured_responses"`
	SelectedFrameworks  rubric.Selection  `json:"selected_frameworks"`
}

// IsEmpty reports whether the participant wrote nothing at all.
func (n SessionNotes) IsEmpty() bool {
	if strings.TrimSpace(n.GenericNotes) != "" {
		return false
	}
	for _, v := range n.StructuredResponses {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (n SessionNotes) Encode() (datatypes.JSON, error) {
	raw, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode session notes: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func DecodeSessionNotes(raw datatypes.JSON) (SessionNotes, error) {
	var out SessionNotes
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode session notes: %w", err)
	}
	return out, nil
}
