package httpdto

import (
	"testing"

	"student-records/internal/domain/student"
	"student-records/internal/services"
	records_errors "student-records/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestStudentForm_ToCreateInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		form    StudentForm
		want    services.CreateStudentInput
		wantErr bool
	}{
		{
			name: "valid",
			form: StudentForm{Name: ptr("Ann"), Age: ptr("20"), Address: ptr("Main St")},
			want: services.CreateStudentInput{Name: "Ann", Age: 20, Address: "Main St"},
		},
		{
			name: "age with spaces",
			form: StudentForm{Name: ptr("Ann"), Age: ptr(" 7 "), Address: ptr("Main St")},
			want: services.CreateStudentInput{Name: "Ann", Age: 7, Address: "Main St"},
		},
		{name: "missing name", form: StudentForm{Age: ptr("20"), Address: ptr("Main St")}, wantErr: true},
		{name: "empty name", form: StudentForm{Name: ptr(""), Age: ptr("20"), Address: ptr("Main St")}, wantErr: true},
		{name: "missing age", form: StudentForm{Name: ptr("Ann"), Address: ptr("Main St")}, wantErr: true},
		{name: "missing address", form: StudentForm{Name: ptr("Ann"), Age: ptr("20")}, wantErr: true},
		{name: "non numeric age", form: StudentForm{Name: ptr("Ann"), Age: ptr("NaN"), Address: ptr("Main St")}, wantErr: true},
		{name: "negative age", form: StudentForm{Name: ptr("Ann"), Age: ptr("-1"), Address: ptr("Main St")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.form.ToCreateInput()
			if tt.wantErr {
				require.ErrorIs(t, err, records_errors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStudentForm_ToUpdateInput(t *testing.T) {
	t.Parallel()

	got, err := StudentForm{Name: ptr(""), Age: ptr("21")}.ToUpdateInput()
	require.NoError(t, err)
	assert.Equal(t, ptr(""), got.Name)
	assert.Equal(t, ptr(21), got.Age)
	assert.Nil(t, got.Address)

	empty, err := StudentForm{}.ToUpdateInput()
	require.NoError(t, err)
	assert.Equal(t, services.UpdateStudentInput{}, empty)

	_, err = StudentForm{Age: ptr("abc")}.ToUpdateInput()
	require.ErrorIs(t, err, records_errors.ErrInvalidInput)
}

func TestPageQuery_ToListPageInput(t *testing.T) {
	t.Parallel()

	got, err := PageQuery{}.ToListPageInput()
	require.NoError(t, err)
	assert.Equal(t, services.ListPageInput{Page: 1, Limit: 4}, got)

	got, err = PageQuery{Page: "3", Limit: "10"}.ToListPageInput()
	require.NoError(t, err)
	assert.Equal(t, services.ListPageInput{Page: 3, Limit: 10}, got)

	for _, q := range []PageQuery{{Page: "x"}, {Limit: "y"}, {Page: "0"}, {Limit: "0"}, {Page: "-2"}} {
		_, err := q.ToListPageInput()
		assert.ErrorIs(t, err, records_errors.ErrInvalidInput, "%+v", q)
	}
}

func TestNewStudentPageResponse_NeverNull(t *testing.T) {
	t.Parallel()

	resp := NewStudentPageResponse(student.Page{CurrentPage: 1})
	assert.NotNil(t, resp.Students)
}
