package listfilter

import "fmt"

// Kind identifies which family of administrative listing screens a filter
// set applies to. The two object kinds expose structurally different
// listing-query representations; see ContentQuery and UserQuery.
type Kind string

const (
	// KindContent covers content-record listing screens, one per subtype
	// (e.g. "post", "page").
	KindContent Kind = "content"

	// KindUser covers user-record listing screens.
	KindUser Kind = "user"
)

// Valid reports whether k is one of the supported screen kinds.
func (k Kind) Valid() bool {
	return k == KindContent || k == KindUser
}

// ScreenKey identifies a single listing screen.
type ScreenKey struct {
	Kind    Kind
	Subtype string
}

// String returns the canonical "kind/subtype" form.
func (s ScreenKey) String() string {
	return fmt.Sprintf("%s/%s", s.Kind, s.Subtype)
}
