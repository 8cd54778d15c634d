package listfilter

// Query is the narrow adapter over a listing-query representation. The two
// supported object kinds expose structurally different query types; both
// implement this two-method contract so a single QueryFunc signature works
// for either. Set stores a named parameter, Get reads the accumulated
// parameter set.
type Query interface {
	Set(key string, value any)
	Get(key string) any
}

// Reserved parameter names under which the query modifier accumulates its
// conjunctive condition lists. Callbacks that want to cooperate with the
// built-in strategies should use AppendFieldCondition / AppendTermCondition
// rather than touching these directly.
const (
	paramFieldConditions = "fieldConditions"
	paramTermConditions  = "termConditions"
)

// FieldCondition is an equality condition on a named record attribute.
type FieldCondition struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TermCondition restricts results to records associated with a grouping
// term of the named taxonomy.
type TermCondition struct {
	Taxonomy string `json:"taxonomy"`
	Term     string `json:"term"`
}

// FieldConditions returns the field-match conditions accumulated on q.
// Multiple conditions are always combined with logical AND.
func FieldConditions(q Query) []FieldCondition {
	cs, _ := q.Get(paramFieldConditions).([]FieldCondition)
	return cs
}

// TermConditions returns the taxonomy-join conditions accumulated on q.
// Multiple conditions are always combined with logical AND.
func TermConditions(q Query) []TermCondition {
	cs, _ := q.Get(paramTermConditions).([]TermCondition)
	return cs
}

// AppendFieldCondition adds an equality condition to q's conjunctive
// field-condition list.
func AppendFieldCondition(q Query, key, value string) {
	q.Set(paramFieldConditions, append(FieldConditions(q), FieldCondition{Key: key, Value: value}))
}

// AppendTermCondition adds a taxonomy-join condition to q's conjunctive
// term-condition list.
func AppendTermCondition(q Query, taxonomy, term string) {
	q.Set(paramTermConditions, append(TermConditions(q), TermCondition{Taxonomy: taxonomy, Term: term}))
}
