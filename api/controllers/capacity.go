package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shorebytelabs/nailsbyabri-sub003/api/responses"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/capacity"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

const (
	defaultCapacityWeeks = 8
	maxCapacityWeeks     = 26
)

type capacityWeekView struct {
	WeekStart  time.Time `json:"week_start"`
	BookedSets int       `json:"booked_sets"`
	LimitSets  int       `json:"limit_sets"`
}

// AdminCapacity returns the booked-vs-limit view for the next ?weeks=
// production weeks.
func AdminCapacity(svc capacity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "capacity service unavailable"))
			return
		}

		weeks := defaultCapacityWeeks
		if raw := strings.TrimSpace(r.URL.Query().Get("weeks")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > maxCapacityWeeks {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "weeks must be between 1 and 26"))
				return
			}
			weeks = parsed
		}

		upcoming, err := svc.Upcoming(r.Context(), weeks)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]capacityWeekView, 0, len(upcoming))
		for _, week := range upcoming {
			views = append(views, capacityWeekView{
				WeekStart:  week.WeekStart,
				BookedSets: week.BookedSets,
				LimitSets:  week.LimitSets,
			})
		}
		responses.WriteSuccess(w, map[string]any{"weeks": views})
	}
}
