package recordstore

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

type evalRecord struct {
	ID        string `dynamodbav:"id"`
	OwnerID   string `dynamodbav:"owner_id"`
	IsPublic  bool   `dynamodbav:"is_public"`
	CreatedAt int64  `dynamodbav:"created_at"`
}

func marshalRecord(t *testing.T, r evalRecord) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(r)
	require.NoError(t, err)
	return item
}

func TestMatch(t *testing.T) {
	item := marshalRecord(t, evalRecord{
		ID:        "r1",
		OwnerID:   "alice",
		IsPublic:  true,
		CreatedAt: 150,
	})

	testcases := []struct {
		name     string
		pred     Predicate
		expected bool
	}{
		{"eq string hit", Eq("owner_id", "alice"), true},
		{"eq string miss", Eq("owner_id", "bob"), false},
		{"eq bool", Eq("is_public", true), true},
		{"in hit", In("owner_id", StringsToAny([]string{"bob", "alice"})...), true},
		{"in miss", In("owner_id", StringsToAny([]string{"bob", "carol"})...), false},
		{"lt number", Lt("created_at", int64(200)), true},
		{"lt number miss", Lt("created_at", int64(100)), false},
		{"lte boundary", Lte("created_at", int64(150)), true},
		{"gt boundary miss", Gt("created_at", int64(150)), false},
		{"gte boundary", Gte("created_at", int64(150)), true},
		{"begins with", BeginsWith("owner_id", "ali"), true},
		{"contains", Contains("owner_id", "lic"), true},
		{"missing field never matches", Eq("no_such_field", "x"), false},
		{
			"conjunction hit",
			And(Eq("owner_id", "alice"), Eq("is_public", true), Lt("created_at", int64(200))),
			true,
		},
		{
			"conjunction one miss",
			And(Eq("owner_id", "alice"), Eq("is_public", false)),
			false,
		},
		{"empty predicate matches all", nil, true},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Match(item, tc.pred)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestSortItems(t *testing.T) {
	items := []map[string]types.AttributeValue{
		marshalRecord(t, evalRecord{ID: "b", CreatedAt: 200}),
		marshalRecord(t, evalRecord{ID: "a", CreatedAt: 100}),
		marshalRecord(t, evalRecord{ID: "c", CreatedAt: 300}),
	}

	SortItems(items, Sort{Field: "created_at", Descending: true})

	var got []evalRecord
	require.NoError(t, attributevalue.UnmarshalListOfMaps(items, &got))
	require.Equal(t, "c", got[0].ID)
	require.Equal(t, "b", got[1].ID)
	require.Equal(t, "a", got[2].ID)

	SortItems(items, Sort{Field: "created_at"})
	require.NoError(t, attributevalue.UnmarshalListOfMaps(items, &got))
	require.Equal(t, "a", got[0].ID)

	// Large unix-millisecond values survive the numeric comparison that a
	// lexicographic one would get wrong.
	items = []map[string]types.AttributeValue{
		marshalRecord(t, evalRecord{ID: "big", CreatedAt: 1700000000000}),
		marshalRecord(t, evalRecord{ID: "small", CreatedAt: 900}),
	}
	SortItems(items, Sort{Field: "created_at", Descending: true})
	require.NoError(t, attributevalue.UnmarshalListOfMaps(items, &got))
	require.Equal(t, "big", got[0].ID)
}
