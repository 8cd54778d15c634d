package listfilter

// ContentQuery adapts the content-record listing query, which the host
// represents as a flat map of query variables.
type ContentQuery struct {
	vars map[string]any
}

// NewContentQuery creates an empty content listing query.
func NewContentQuery() *ContentQuery {
	return &ContentQuery{vars: make(map[string]any)}
}

// Set stores a named query variable.
func (q *ContentQuery) Set(key string, value any) {
	q.vars[key] = value
}

// Get reads a named query variable. Returns nil when unset.
func (q *ContentQuery) Get(key string) any {
	return q.vars[key]
}

// Vars returns a copy of the accumulated query variables.
func (q *ContentQuery) Vars() map[string]any {
	out := make(map[string]any, len(q.vars))
	for k, v := range q.vars {
		out[k] = v
	}

	return out
}

var _ Query = (*ContentQuery)(nil)
