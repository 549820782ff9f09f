package service

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/repository"
	"github.com/atlekbai/timesheet/internal/spec"
)

type ClientService struct {
	crud[model.Client, model.ClientRow, spec.Clients]
}

func NewClientService(conn *sqlx.DB, derived Invalidator, log *zap.Logger) *ClientService {
	return &ClientService{crud[model.Client, model.ClientRow, spec.Clients]{
		repo:    repository.New[model.Client](conn, log),
		derived: derived,
		log:     log,
	}}
}

func (s *ClientService) RegisterHandler(interceptors ...connect.Interceptor) (string, http.Handler) {
	r := newRoutes("ClientService", interceptors)
	registerCRUD(r, s.crud)
	handle(r, "Names", s.Names)
	return r.handler()
}

type ProjectService struct {
	crud[model.Project, model.ProjectRow, spec.Projects]
}

func NewProjectService(conn *sqlx.DB, derived Invalidator, log *zap.Logger) *ProjectService {
	return &ProjectService{crud[model.Project, model.ProjectRow, spec.Projects]{
		repo:    repository.New[model.Project](conn, log),
		derived: derived,
		log:     log,
	}}
}

func (s *ProjectService) RegisterHandler(interceptors ...connect.Interceptor) (string, http.Handler) {
	r := newRoutes("ProjectService", interceptors)
	registerCRUD(r, s.crud)
	handle(r, "Names", s.Names)
	return r.handler()
}
