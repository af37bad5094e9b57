package shared

// Filter holds the optional paging window for list queries. A zero Limit
// means "no limit".
type Filter struct {
	Offset int
	Limit  int
}

// Normalize clamps negative values
func (f Filter) Normalize() Filter {
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit < 0 {
		f.Limit = 0
	}
	return f
}
