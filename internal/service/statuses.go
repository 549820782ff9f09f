package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/status"
)

type StatusService struct {
	cache *status.Cache
}

func NewStatusService(cache *status.Cache) *StatusService {
	return &StatusService{cache: cache}
}

func (s *StatusService) RegisterHandler(interceptors ...connect.Interceptor) (string, http.Handler) {
	r := newRoutes("StatusService", interceptors)
	handle(r, "List", s.List)
	return r.handler()
}

type StatusListRequest struct {
	// Invoiceable limits the list to the statuses an invoice may carry.
	Invoiceable bool `json:"invoiceable,omitempty"`
}

type StatusListResponse struct {
	Results []model.Status `json:"results"`
}

func (s *StatusService) List(_ context.Context, req *connect.Request[StatusListRequest]) (*connect.Response[StatusListResponse], error) {
	list := s.cache.List()
	if req.Msg.Invoiceable {
		list = s.cache.Invoiceable()
	}
	if list == nil {
		list = []model.Status{}
	}
	return connect.NewResponse(&StatusListResponse{Results: list}), nil
}
