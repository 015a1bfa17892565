package pd

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session is one participant's note-taking attempt against an Agenda.
// Notes are written once, when the participant submits.
type Session struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AgendaID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"agenda_id"`
	Agenda          *Agenda        `gorm:"constraint:OnDelete:CASCADE;foreignKey:AgendaID;references:ID" json:"agenda,omitempty"`
	ParticipantName string         `gorm:"column:participant_name;not null" json:"participant_name"`
	Notes           datatypes.JSON `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Session) TableName() string { return "session" }
