package spec

import (
	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/query"
)

// Clients filters the client list. Text filters match substrings,
// case-insensitively except for the phone number.
type Clients struct {
	Name         string `json:"name,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

func (s Clients) Query() (query.Query, error) {
	b := query.New().
		Select("Id", "Name", "ContactName", "ContactPhone", "ContactEmail").
		From(model.TableClients).
		OrderBy("Id", true)

	if s.Name != "" {
		b.WhereLike(query.Lower("Name"), contains(s.Name))
	}
	if s.ContactName != "" {
		b.WhereLike(query.Lower("ContactName"), contains(s.ContactName))
	}
	if s.ContactPhone != "" {
		b.WhereLike("ContactPhone", "%"+s.ContactPhone+"%")
	}
	if s.ContactEmail != "" {
		b.WhereLike(query.Lower("ContactEmail"), contains(s.ContactEmail))
	}
	return b.Build()
}

func (s Clients) FilterNames() string {
	var active []string
	if s.Name != "" {
		active = append(active, "Name")
	}
	if s.ContactName != "" {
		active = append(active, "Contact Name")
	}
	if s.ContactPhone != "" {
		active = append(active, "Contact Phone")
	}
	if s.ContactEmail != "" {
		active = append(active, "Contact Email")
	}
	return filterNames(active...)
}
