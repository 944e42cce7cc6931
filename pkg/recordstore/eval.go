package recordstore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Match evaluates the predicate against a marshaled record. It backs the
// in-memory store used in tests, so its semantics must agree with the filter
// expressions the DynamoDB driver compiles.
func Match(item map[string]types.AttributeValue, pred Predicate) (bool, error) {
	for _, cond := range pred {
		ok, err := matchCondition(item, cond)
		if err != nil {
			return false, err
		}

		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func matchCondition(item map[string]types.AttributeValue, cond Condition) (bool, error) {
	attr, ok := item[cond.Field]
	if !ok {
		return false, nil
	}

	switch cond.Op {
	case OpEq:
		return attrEqual(attr, cond.Values[0])

	case OpIn:
		for _, v := range cond.Values {
			eq, err := attrEqual(attr, v)
			if err != nil {
				return false, err
			}

			if eq {
				return true, nil
			}
		}
		return false, nil

	case OpLt, OpLte, OpGt, OpGte:
		cmp, err := attrCompare(attr, cond.Values[0])
		if err != nil {
			return false, err
		}

		switch cond.Op {
		case OpLt:
			return cmp < 0, nil
		case OpLte:
			return cmp <= 0, nil
		case OpGt:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}

	case OpBeginsWith:
		s, ok := attr.(*types.AttributeValueMemberS)
		if !ok {
			return false, nil
		}
		prefix, _ := cond.Values[0].(string)
		return strings.HasPrefix(s.Value, prefix), nil

	case OpContains:
		s, ok := attr.(*types.AttributeValueMemberS)
		if !ok {
			return false, nil
		}
		substr, _ := cond.Values[0].(string)
		return strings.Contains(s.Value, substr), nil

	default:
		return false, fmt.Errorf("unsupported predicate op %s", cond.Op)
	}
}

func attrEqual(attr types.AttributeValue, value any) (bool, error) {
	want, err := attributevalue.Marshal(value)
	if err != nil {
		return false, err
	}

	switch a := attr.(type) {
	case *types.AttributeValueMemberS:
		w, ok := want.(*types.AttributeValueMemberS)
		return ok && a.Value == w.Value, nil
	case *types.AttributeValueMemberN:
		w, ok := want.(*types.AttributeValueMemberN)
		if !ok {
			return false, nil
		}
		av, err1 := strconv.ParseFloat(a.Value, 64)
		wv, err2 := strconv.ParseFloat(w.Value, 64)
		if err1 != nil || err2 != nil {
			return a.Value == w.Value, nil
		}
		return av == wv, nil
	case *types.AttributeValueMemberBOOL:
		w, ok := want.(*types.AttributeValueMemberBOOL)
		return ok && a.Value == w.Value, nil
	case *types.AttributeValueMemberNULL:
		_, ok := want.(*types.AttributeValueMemberNULL)
		return ok, nil
	default:
		return false, nil
	}
}

func attrCompare(attr types.AttributeValue, value any) (int, error) {
	want, err := attributevalue.Marshal(value)
	if err != nil {
		return 0, err
	}

	switch a := attr.(type) {
	case *types.AttributeValueMemberN:
		w, ok := want.(*types.AttributeValueMemberN)
		if !ok {
			return 0, fmt.Errorf("cannot compare number with %T", want)
		}
		av, err1 := strconv.ParseFloat(a.Value, 64)
		wv, err2 := strconv.ParseFloat(w.Value, 64)
		if err1 != nil || err2 != nil {
			return 0, fmt.Errorf("invalid numeric attribute")
		}
		switch {
		case av < wv:
			return -1, nil
		case av > wv:
			return 1, nil
		default:
			return 0, nil
		}

	case *types.AttributeValueMemberS:
		w, ok := want.(*types.AttributeValueMemberS)
		if !ok {
			return 0, fmt.Errorf("cannot compare string with %T", want)
		}
		// RFC3339 timestamps in UTC order the same way their strings do, so
		// a plain string comparison covers both text and time fields.
		return strings.Compare(a.Value, w.Value), nil

	default:
		return 0, fmt.Errorf("cannot compare attribute of type %T", attr)
	}
}

// SortItems orders marshaled records by the sort field. Records missing the
// field sink to the end.
func SortItems(items []map[string]types.AttributeValue, s Sort) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := items[i][s.Field]
		b, bok := items[j][s.Field]
		if !aok {
			return false
		}
		if !bok {
			return true
		}

		if s.Descending {
			return attrLess(b, a)
		}

		return attrLess(a, b)
	})
}

func attrLess(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		af, _ := strconv.ParseFloat(av.Value, 64)
		bf, _ := strconv.ParseFloat(bv.Value, 64)
		return af < bf
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		if !ok {
			return false
		}
		return av.Value < bv.Value
	default:
		return false
	}
}
