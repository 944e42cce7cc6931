package recordstore

type Op string

const (
	OpEq         Op = "eq"
	OpIn         Op = "in"
	OpLt         Op = "lt"
	OpLte        Op = "lte"
	OpGt         Op = "gt"
	OpGte        Op = "gte"
	OpBeginsWith Op = "begins_with"
	OpContains   Op = "contains"
)

type Condition struct {
	Field  string
	Op     Op
	Values []any
}

// Predicate is a conjunction of field conditions. The store substrate has no
// disjunction, so neither does this builder.
type Predicate []Condition

func Eq(field string, value any) Predicate {
	return Predicate{{Field: field, Op: OpEq, Values: []any{value}}}
}

func In(field string, values ...any) Predicate {
	return Predicate{{Field: field, Op: OpIn, Values: values}}
}

func Lt(field string, value any) Predicate {
	return Predicate{{Field: field, Op: OpLt, Values: []any{value}}}
}

func Lte(field string, value any) Predicate {
	return Predicate{{Field: field, Op: OpLte, Values: []any{value}}}
}

func Gt(field string, value any) Predicate {
	return Predicate{{Field: field, Op: OpGt, Values: []any{value}}}
}

func Gte(field string, value any) Predicate {
	return Predicate{{Field: field, Op: OpGte, Values: []any{value}}}
}

func BeginsWith(field, prefix string) Predicate {
	return Predicate{{Field: field, Op: OpBeginsWith, Values: []any{prefix}}}
}

func Contains(field, substr string) Predicate {
	return Predicate{{Field: field, Op: OpContains, Values: []any{substr}}}
}

func And(predicates ...Predicate) Predicate {
	var result Predicate
	for _, p := range predicates {
		result = append(result, p...)
	}

	return result
}

// StringsToAny widens a string slice for use with In.
func StringsToAny(values []string) []any {
	result := make([]any, 0, len(values))
	for _, v := range values {
		result = append(result, v)
	}

	return result
}
