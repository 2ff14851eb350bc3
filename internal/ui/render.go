package ui

import (
	"strings"

	"student-records/internal/domain/student"
)

type Row struct {
	ID        string
	Name      string
	Age       int
	Address   string
	AvatarURL string
}

type PageButton struct {
	Number int
	Active bool
}

// View is the template model of the index page.
type View struct {
	Rows        []Row
	Pages       []PageButton
	CurrentPage int
	Form        FormValues
	Editing     bool
	Error       string
}

// Render maps state and one fetched page to a view. It does no I/O.
func Render(state PageState, page student.Page, baseURL string) View {
	v := View{
		Rows:        make([]Row, 0, len(page.Students)),
		Pages:       make([]PageButton, 0, page.TotalPages),
		CurrentPage: state.CurrentPage,
		Form:        state.Form,
		Editing:     state.Editing,
		Error:       state.Error,
	}

	for _, s := range page.Students {
		v.Rows = append(v.Rows, Row{
			ID:        s.ID,
			Name:      s.Name,
			Age:       s.Age,
			Address:   s.Address,
			AvatarURL: AvatarURL(baseURL, s.Avatar),
		})
	}

	for i := 1; i <= page.TotalPages; i++ {
		v.Pages = append(v.Pages, PageButton{Number: i, Active: i == state.CurrentPage})
	}
	return v
}

// AvatarURL joins the record service origin and a stored avatar path.
// Records without an avatar get an empty URL.
func AvatarURL(baseURL, avatarPath string) string {
	if avatarPath == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(avatarPath, "/")
}
