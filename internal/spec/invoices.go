package spec

import (
	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/query"
)

// Invoices lists invoices, most recently issued first.
type Invoices struct {
	ClientID   int64      `json:"client_id,omitempty"`
	StatusIDs  []int64    `json:"status_ids,omitempty"`
	IssuedFrom model.Date `json:"issued_from,omitzero"`
	IssuedTo   model.Date `json:"issued_to,omitzero"`
}

func (s Invoices) Query() (query.Query, error) {
	b := query.New().
		Select(
			"i.Id AS Id",
			"i.Number AS Number",
			"c.Name AS ClientName",
			"i.IssueDate AS IssueDate",
			"i.DueDate AS DueDate",
			"s.ColorArgb AS ColorArgb",
		).
		From(model.TableInvoices+" i").
		LeftJoin(model.TableClients+" c", "i.ClientId", "c.Id").
		LeftJoin(model.TableStatuses+" s", "i.StatusId", "s.Id").
		OrderBy("i.IssueDate", false)

	if s.ClientID > 0 {
		b.Where("i.ClientId", query.OpEq, s.ClientID)
	}
	if len(s.StatusIDs) > 0 {
		b.WhereIn("i.StatusId", int64Args(s.StatusIDs)...)
	}
	switch {
	case !s.IssuedFrom.IsZero() && !s.IssuedTo.IsZero():
		b.WhereBetween("i.IssueDate", s.IssuedFrom, s.IssuedTo)
	case !s.IssuedFrom.IsZero():
		b.Where("i.IssueDate", query.OpGte, s.IssuedFrom)
	case !s.IssuedTo.IsZero():
		b.Where("i.IssueDate", query.OpLte, s.IssuedTo)
	}
	return b.Build()
}

func (s Invoices) FilterNames() string {
	var active []string
	if s.ClientID > 0 {
		active = append(active, "Client")
	}
	if len(s.StatusIDs) > 0 {
		active = append(active, "Status")
	}
	if !s.IssuedFrom.IsZero() || !s.IssuedTo.IsZero() {
		active = append(active, "Issue Date")
	}
	return filterNames(active...)
}
