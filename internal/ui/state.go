package ui

import (
	"strconv"
	"strings"

	"student-records/internal/domain/student"
)

// FormValues are the values shown in the create/edit form.
type FormValues struct {
	ID      string
	Name    string
	Age     string
	Address string
}

// PageState is everything a render depends on besides the fetched data.
// It is rebuilt from every request; nothing is kept between requests.
type PageState struct {
	CurrentPage int
	Limit       int
	Form        FormValues
	Editing     bool
	Error       string
}

// ParsePage reads a page number, falling back to 1 for anything that is not
// a positive integer.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func NewPageState(rawPage string, limit int) PageState {
	return PageState{CurrentPage: ParsePage(rawPage), Limit: limit}
}

// WithEditing fills the form from s and marks the state as editing it.
func (p PageState) WithEditing(s student.Student) PageState {
	p.Editing = true
	p.Form = FormValues{
		ID:      s.ID,
		Name:    s.Name,
		Age:     strconv.Itoa(s.Age),
		Address: s.Address,
	}
	return p
}
