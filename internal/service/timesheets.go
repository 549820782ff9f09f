package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/repository"
	"github.com/atlekbai/timesheet/internal/spec"
)

type TimesheetService struct {
	crud[model.Timesheet, model.TimesheetRow, spec.Timesheets]
}

func NewTimesheetService(conn *sqlx.DB, derived Invalidator, log *zap.Logger) *TimesheetService {
	return &TimesheetService{crud[model.Timesheet, model.TimesheetRow, spec.Timesheets]{
		repo:    repository.New[model.Timesheet](conn, log),
		derived: derived,
		log:     log,
	}}
}

func (s *TimesheetService) RegisterHandler(interceptors ...connect.Interceptor) (string, http.Handler) {
	r := newRoutes("TimesheetService", interceptors)
	registerCRUD(r, s.crud)
	handle(r, "Years", s.Years)
	return r.handler()
}

type YearsRequest struct{}

type YearsResponse struct {
	Years []string `json:"years"`
}

// Years lists the years that have timesheets, oldest first.
func (s *TimesheetService) Years(ctx context.Context, _ *connect.Request[YearsRequest]) (*connect.Response[YearsResponse], error) {
	years, err := repository.Select[string](ctx, s.repo, spec.DistinctTime{
		Column: "Date",
		Table:  s.repo.TableName(),
		Format: "%Y",
	})
	if err != nil {
		return nil, connectError(err)
	}
	if years == nil {
		years = []string{}
	}
	return connect.NewResponse(&YearsResponse{Years: years}), nil
}
