package pd

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Agenda is the stored record of a professional-development session's title
// and content plus the generated note-taking form. Immutable after creation.
type Agenda struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Content       string         `gorm:"column:content;type:text;not null" json:"content"`
	FormStructure datatypes.JSON `gorm:"column:form_structure" json:"form_structure"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Agenda) TableName() string { return "agenda" }
