package student

// Student is the single record kind managed by the service.
type Student struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	// Avatar is a server-relative path such as "uploads/1729339200000-1a2b3c4d.png".
	Avatar string `json:"avatar,omitempty"`
}

// Patch carries the fields of an update. Nil fields keep their stored value.
type Patch struct {
	Name    *string
	Age     *int
	Address *string
	Avatar  *string
}

// Apply returns s with every non-nil patch field overwritten.
func (p Patch) Apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.Avatar != nil {
		s.Avatar = *p.Avatar
	}
	return s
}

// Page is one offset-based slice of the collection.
type Page struct {
	Students    []Student
	TotalPages  int
	CurrentPage int
}

// TotalPages is ceil(count/limit).
func TotalPages(count int64, limit int) int {
	if limit < 1 || count <= 0 {
		return 0
	}
	pages := count / int64(limit)
	if count%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
