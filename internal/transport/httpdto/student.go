package httpdto

import (
	"strconv"
	"strings"

	"student-records/internal/domain/student"
	"student-records/internal/services"
	records_errors "student-records/pkg/errors"
)

// StudentForm is the multipart body of POST /students and PUT /students/:id.
// Fields are pointers so that "not sent" can be told apart from "sent empty".
// The avatar file part is read separately.
type StudentForm struct {
	Name    *string `form:"name"`
	Age     *string `form:"age"`
	Address *string `form:"address"`
}

func (f StudentForm) ToCreateInput() (services.CreateStudentInput, error) {
	if f.Name == nil || strings.TrimSpace(*f.Name) == "" {
		return services.CreateStudentInput{}, records_errors.Invalid("name is required")
	}
	if f.Address == nil || strings.TrimSpace(*f.Address) == "" {
		return services.CreateStudentInput{}, records_errors.Invalid("address is required")
	}
	if f.Age == nil || strings.TrimSpace(*f.Age) == "" {
		return services.CreateStudentInput{}, records_errors.Invalid("age is required")
	}
	age, err := parseAge(*f.Age)
	if err != nil {
		return services.CreateStudentInput{}, err
	}
	return services.CreateStudentInput{Name: *f.Name, Age: age, Address: *f.Address}, nil
}

func (f StudentForm) ToUpdateInput() (services.UpdateStudentInput, error) {
	in := services.UpdateStudentInput{Name: f.Name, Address: f.Address}
	if f.Age != nil {
		age, err := parseAge(*f.Age)
		if err != nil {
			return services.UpdateStudentInput{}, err
		}
		in.Age = &age
	}
	return in, nil
}

func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, records_errors.Invalid("age must be a number, got %q", raw)
	}
	if age < 0 {
		return 0, records_errors.Invalid("age must be a non-negative integer")
	}
	return age, nil
}

// PageQuery is the query string of GET /students-paging.
type PageQuery struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
}

func (q PageQuery) ToListPageInput() (services.ListPageInput, error) {
	in := services.ListPageInput{Page: services.DefaultPage, Limit: services.DefaultLimit}
	if q.Page != "" {
		page, err := strconv.Atoi(q.Page)
		if err != nil {
			return services.ListPageInput{}, records_errors.Invalid("page must be a number, got %q", q.Page)
		}
		in.Page = page
	}
	if q.Limit != "" {
		limit, err := strconv.Atoi(q.Limit)
		if err != nil {
			return services.ListPageInput{}, records_errors.Invalid("limit must be a number, got %q", q.Limit)
		}
		in.Limit = limit
	}
	return in, in.Validate()
}

// StudentPageResponse is the body of GET /students-paging.
type StudentPageResponse struct {
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Students    []student.Student `json:"students"`
}

func NewStudentPageResponse(p student.Page) StudentPageResponse {
	students := p.Students
	if students == nil {
		students = []student.Student{}
	}
	return StudentPageResponse{
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
		Students:    students,
	}
}
