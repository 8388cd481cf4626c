package capacity

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

// Service books production capacity and answers load questions.
type Service interface {
	Book(ctx context.Context, tx *gorm.DB, weekStart time.Time, sets int) error
	Load(ctx context.Context, weekStart time.Time) (models.CapacityWeek, error)
	Upcoming(ctx context.Context, weeks int) ([]models.CapacityWeek, error)
}

type service struct {
	db          *gorm.DB
	logg        *logger.Logger
	weeklyLimit int
}

// NewService builds the capacity service. weeklyLimit is the default limit
// applied when a week's row is first created.
func NewService(db *gorm.DB, logg *logger.Logger, weeklyLimit int) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if weeklyLimit < 1 {
		return nil, fmt.Errorf("weekly set limit must be positive, got %d", weeklyLimit)
	}
	return &service{db: db, logg: logg, weeklyLimit: weeklyLimit}, nil
}

// Book adds sets to a week's counter inside the caller's transaction,
// creating the week row on first use. Over-limit weeks log a warning but do
// not fail the order: the studio absorbs the overflow rather than failing a
// paid customer.
func (s *service) Book(ctx context.Context, tx *gorm.DB, weekStart time.Time, sets int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "capacity booking requires a transaction")
	}
	if sets < 1 {
		return nil
	}
	weekStart = WeekStartFor(weekStart)

	row := models.CapacityWeek{
		WeekStart:  weekStart,
		BookedSets: sets,
		LimitSets:  s.weeklyLimit,
	}
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "week_start"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"booked_sets": gorm.Expr("booked_sets + ?", sets),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "capacity booking failed")
	}

	var current models.CapacityWeek
	if err := tx.WithContext(ctx).First(&current, "week_start = ?", weekStart).Error; err == nil {
		if current.BookedSets > current.LimitSets && s.logg != nil {
			ctx = s.logg.WithFields(ctx, map[string]any{
				"week_start":  weekStart.Format("2006-01-02"),
				"booked_sets": current.BookedSets,
				"limit_sets":  current.LimitSets,
			})
			s.logg.Warn(ctx, "week booked beyond capacity")
		}
	}
	return nil
}

// Load returns one week's booking state, zero-valued when nothing is booked.
func (s *service) Load(ctx context.Context, weekStart time.Time) (models.CapacityWeek, error) {
	weekStart = WeekStartFor(weekStart)
	var row models.CapacityWeek
	err := s.db.WithContext(ctx).First(&row, "week_start = ?", weekStart).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.CapacityWeek{WeekStart: weekStart, LimitSets: s.weeklyLimit}, nil
		}
		return models.CapacityWeek{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "capacity load failed")
	}
	return row, nil
}

// Upcoming returns booking state for the current week and the n-1 weeks
// after it, filling gaps with empty weeks.
func (s *service) Upcoming(ctx context.Context, weeks int) ([]models.CapacityWeek, error) {
	if weeks < 1 {
		weeks = 1
	}
	start := WeekStartFor(time.Now())

	var rows []models.CapacityWeek
	err := s.db.WithContext(ctx).
		Where("week_start >= ? AND week_start < ?", start, start.AddDate(0, 0, 7*weeks)).
		Order("week_start ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "capacity list failed")
	}

	byWeek := make(map[time.Time]models.CapacityWeek, len(rows))
	for _, row := range rows {
		byWeek[row.WeekStart.UTC()] = row
	}
	out := make([]models.CapacityWeek, 0, weeks)
	for i := 0; i < weeks; i++ {
		week := start.AddDate(0, 0, 7*i)
		if row, ok := byWeek[week]; ok {
			out = append(out, row)
		} else {
			out = append(out, models.CapacityWeek{WeekStart: week, LimitSets: s.weeklyLimit})
		}
	}
	return out, nil
}
