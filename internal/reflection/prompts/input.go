package prompts

import "github.com/pembrokehq/reflect-backend/internal/reflection/rubric"

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings.
type Input struct {
	// Agenda intake
	Title      string
	AgendaText string

	// Notes analysis
	ParticipantName     string
	GenericNotes        string
	StructuredResponses map[string]string
	Frameworks          rubric.Selection
}
