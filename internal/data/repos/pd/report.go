package pd

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/dbctx"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

type ReportRepo interface {
	// Upsert writes the report for its session, replacing a previous
	// analysis if the participant resubmits.
	Upsert(dbc dbctx.Context, row *pd.Report) error
	GetBySessionID(dbc dbctx.Context, sessionID uuid.UUID) (*pd.Report, error)
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return &reportRepo{
		db:  db,
		log: baseLog.With("repo", "ReportRepo"),
	}
}

func (r *reportRepo) Upsert(dbc dbctx.Context, row *pd.Report) error {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"framework_analysis", "selected_frameworks", "ai_insights"}),
		}).
		Create(row).Error
}

func (r *reportRepo) GetBySessionID(dbc dbctx.Context, sessionID uuid.UUID) (*pd.Report, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	out := &pd.Report{}
	if err := tx.WithContext(dbc.Ctx).
		Preload("Session").
		Preload("Session.Agenda").
		Where("session_id = ?", sessionID).
		First(out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
