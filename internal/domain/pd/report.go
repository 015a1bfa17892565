package pd

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report is the persisted rubric-mapped analysis produced from a Session's
// notes. One row per session; a resubmission replaces the analysis in place.
type Report struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Session            *Session       `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	FrameworkAnalysis  datatypes.JSON `gorm:"column:framework_analysis" json:"framework_analysis"`
	SelectedFrameworks datatypes.JSON `gorm:"column:selected_frameworks" json:"selected_frameworks"`
	AIInsights         string         `gorm:"column:ai_insights" json:"ai_insights"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Report) TableName() string { return "report" }
