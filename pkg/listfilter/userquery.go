package listfilter

// UserQueryArgs is the typed argument struct of the user-record listing
// query. Unlike the content query's variable map, the user query exposes a
// fixed set of named fields; everything else lands in Extra.
type UserQueryArgs struct {
	Role    string
	Search  string
	OrderBy string
	Extra   map[string]any
}

// UserQuery adapts the user-record listing query. It bridges the narrow
// Query contract onto UserQueryArgs so the same QueryFunc signature works
// for both object kinds.
type UserQuery struct {
	args *UserQueryArgs
}

// NewUserQuery creates an empty user listing query.
func NewUserQuery() *UserQuery {
	return &UserQuery{args: &UserQueryArgs{Extra: make(map[string]any)}}
}

// Set stores a named parameter, mapping the well-known names onto the typed
// argument fields and everything else into Extra.
func (q *UserQuery) Set(key string, value any) {
	switch key {
	case "role":
		q.args.Role, _ = value.(string)
	case "search":
		q.args.Search, _ = value.(string)
	case "orderby":
		q.args.OrderBy, _ = value.(string)
	default:
		q.args.Extra[key] = value
	}
}

// Get reads a named parameter. Returns nil when unset.
func (q *UserQuery) Get(key string) any {
	switch key {
	case "role":
		return q.args.Role
	case "search":
		return q.args.Search
	case "orderby":
		return q.args.OrderBy
	default:
		return q.args.Extra[key]
	}
}

// Args returns the underlying typed argument struct.
func (q *UserQuery) Args() *UserQueryArgs {
	return q.args
}

var _ Query = (*UserQuery)(nil)
