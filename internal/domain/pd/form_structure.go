package pd

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// FormStructureVersion is written into every new form_structure blob.
// Version 1 is a flat focus-question list. Older rows predate the version
// tag and are normalized by DecodeFormStructure.
const FormStructureVersion = 1

// FormStructure is the note-taking form generated for an Agenda: either a
// flat list of focus questions, or a list of structured sections (a shape
// some older rows use).
type FormStructure struct {
	Version        int           `json:"version"`
	FocusQuestions []string      `json:"focus_questions"`
	Sections       []FormSection `json:"sections,omitempty"`
}

type FormSection struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

func (f FormStructure) Encode() (datatypes.JSON, error) {
	if f.Version == 0 {
		f.Version = FormStructureVersion
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode form structure: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// DecodeFormStructure reads a stored form_structure blob, accepting both the
// current versioned shape and legacy unversioned rows (a bare focus_questions
// list or a bare sections list).
func DecodeFormStructure(raw datatypes.JSON) (FormStructure, error) {
	var out FormStructure
	if len(raw) == 0 {
		return out, fmt.Errorf("form structure is empty")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode form structure: %w", err)
	}
	if out.Version == 0 {
		// Legacy row. Both legacy shapes unmarshal into the same struct;
		// only the version tag is missing.
		out.Version = FormStructureVersion
	}
	if len(out.FocusQuestions) == 0 && len(out.Sections) == 0 {
		return out, fmt.Errorf("form structure has no questions or sections")
	}
	return out, nil
}

// QuestionCount counts prompts regardless of which shape the row uses.
func (f FormStructure) QuestionCount() int {
	if len(f.FocusQuestions) > 0 {
		return len(f.FocusQuestions)
	}
	return len(f.Sections)
}
