package service

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/atlekbai/timesheet/internal/model"
)

// ListRequest carries a list filter and optional paging.
type ListRequest[F any] struct {
	Filter F   `json:"filter"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

func (r ListRequest[F]) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Limit, validation.Min(0)),
		validation.Field(&r.Offset, validation.Min(0)),
	)
}

type ListResponse[R any] struct {
	Results     []R    `json:"results"`
	TotalCount  int64  `json:"total_count"`
	FilterNames string `json:"filter_names,omitempty"`
}

type GetRequest struct {
	ID int64 `json:"id"`
}

func (r GetRequest) Validate() error { return requireID(r.ID) }

type SaveRequest[E validatable] struct {
	Record E `json:"record"`
}

func (r SaveRequest[E]) Validate() error { return r.Record.Validate() }

// Normalize lets the record clean up its input before validation.
func (r *SaveRequest[E]) Normalize() {
	if n, ok := any(&r.Record).(interface{ Normalize() }); ok {
		n.Normalize()
	}
}

type SaveResponse struct {
	ID int64 `json:"id"`
}

type DeleteRequest struct {
	ID int64 `json:"id"`
}

func (r DeleteRequest) Validate() error { return requireID(r.ID) }

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type NamesRequest struct{}

type NamesResponse struct {
	Results []model.IDName `json:"results"`
}

func requireID(id int64) error {
	return validation.Errors{
		"id": validation.Validate(id, validation.Required, validation.Min(int64(1))),
	}.Filter()
}

type validatable interface {
	Validate() error
}
