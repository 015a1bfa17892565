package repos

import (
	"gorm.io/gorm"

	"github.com/pembrokehq/reflect-backend/internal/data/repos/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

type AgendaRepo = pd.AgendaRepo
type SessionRepo = pd.SessionRepo
type ReportRepo = pd.ReportRepo

func NewAgendaRepo(db *gorm.DB, baseLog *logger.Logger) AgendaRepo {
	return pd.NewAgendaRepo(db, baseLog)
}
func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return pd.NewSessionRepo(db, baseLog)
}
func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return pd.NewReportRepo(db, baseLog)
}
