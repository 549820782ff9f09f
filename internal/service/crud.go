package service

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/query"
	"github.com/atlekbai/timesheet/internal/repository"
	"github.com/atlekbai/timesheet/internal/spec"
)

// Package prefix of every procedure path.
const Package = "timesheet.v1"

// entity is a stored record that validates itself.
type entity interface {
	model.Entity
	validatable
}

// crud implements the list, get, save and delete procedures shared by the
// record services. R is the list row and F the list filter.
type crud[E entity, R any, F spec.Specification] struct {
	repo    *repository.Repository[E]
	derived Invalidator
	log     *zap.Logger
}

type paged struct {
	spec          spec.Specification
	limit, offset int
}

func (p paged) Query() (query.Query, error) {
	q, err := p.spec.Query()
	if err != nil {
		return q, err
	}
	return q.Page(p.limit, p.offset)
}

func (c crud[E, R, F]) List(ctx context.Context, req *connect.Request[ListRequest[F]]) (*connect.Response[ListResponse[R]], error) {
	msg := req.Msg
	g, gctx := errgroup.WithContext(ctx)

	var total int64
	g.Go(func() error {
		var err error
		total, err = repository.Count(gctx, c.repo, msg.Filter)
		return err
	})

	var rows []R
	g.Go(func() error {
		var err error
		rows, err = repository.Select[R](gctx, c.repo, paged{spec: msg.Filter, limit: msg.Limit, offset: msg.Offset})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, connectError(fmt.Errorf("list %s: %w", c.repo.TableName(), err))
	}
	if rows == nil {
		rows = []R{}
	}

	return connect.NewResponse(&ListResponse[R]{
		Results:     rows,
		TotalCount:  total,
		FilterNames: msg.Filter.FilterNames(),
	}), nil
}

func (c crud[E, R, F]) Get(ctx context.Context, req *connect.Request[GetRequest]) (*connect.Response[E], error) {
	e, err := c.repo.Find(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&e), nil
}

func (c crud[E, R, F]) Save(ctx context.Context, req *connect.Request[SaveRequest[E]]) (*connect.Response[SaveResponse], error) {
	id, err := c.repo.Save(ctx, req.Msg.Record)
	if err != nil {
		return nil, connectError(err)
	}
	c.changed()
	c.log.Info("saved", zap.String("table", c.repo.TableName()), zap.Int64("id", id))
	return connect.NewResponse(&SaveResponse{ID: id}), nil
}

func (c crud[E, R, F]) Delete(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error) {
	n, err := c.repo.Delete(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError(err)
	}
	if n == 0 {
		return nil, connectError(fmt.Errorf("%s %d: %w", c.repo.TableName(), req.Msg.ID, repository.ErrNotFound))
	}
	c.changed()
	c.log.Info("deleted", zap.String("table", c.repo.TableName()), zap.Int64("id", req.Msg.ID))
	return connect.NewResponse(&DeleteResponse{Deleted: true}), nil
}

// changed drops every derived document, since any of them may show the
// edited record.
func (c crud[E, R, F]) changed() {
	if c.derived != nil {
		c.derived.Purge()
	}
}

func (c crud[E, R, F]) Names(ctx context.Context, _ *connect.Request[NamesRequest]) (*connect.Response[NamesResponse], error) {
	names, err := c.repo.Names(ctx)
	if err != nil {
		return nil, connectError(err)
	}
	if names == nil {
		names = []model.IDName{}
	}
	return connect.NewResponse(&NamesResponse{Results: names}), nil
}

// routes collects the unary handlers of one service under its path prefix.
type routes struct {
	service string
	mux     *http.ServeMux
	opts    []connect.HandlerOption
}

func newRoutes(service string, interceptors []connect.Interceptor) *routes {
	return &routes{
		service: service,
		mux:     http.NewServeMux(),
		opts: []connect.HandlerOption{
			connect.WithCodec(JSONCodec{}),
			connect.WithInterceptors(interceptors...),
		},
	}
}

// Procedure returns the path of a procedure of service.
func Procedure(service, method string) string {
	return "/" + Package + "." + service + "/" + method
}

func (r *routes) prefix() string {
	return "/" + Package + "." + r.service + "/"
}

func handle[Req, Res any](r *routes, method string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error)) {
	path := Procedure(r.service, method)
	r.mux.Handle(path, connect.NewUnaryHandler(path, fn, r.opts...))
}

func (r *routes) handler() (string, http.Handler) {
	return r.prefix(), r.mux
}

func registerCRUD[E entity, R any, F spec.Specification](r *routes, c crud[E, R, F]) {
	handle(r, "List", c.List)
	handle(r, "Get", c.Get)
	handle(r, "Save", c.Save)
	handle(r, "Delete", c.Delete)
}
