package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/puzpuzpuz/xsync"

	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
)

// MemoryStore is an in-process record store for tests. It marshals records
// through the same attributevalue codec as the DynamoDB driver and evaluates
// the same predicates, so repository code behaves identically against both.
type MemoryStore struct {
	tables *xsync.MapOf[string, *xsync.MapOf[string, map[string]types.AttributeValue]]

	mutex    sync.Mutex
	handlers map[string][]recordstore.ChangeHandler

	// FailWith, when set, makes every store call return that error. Tests
	// use it to drive the degraded read paths.
	FailWith error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   xsync.NewMapOf[*xsync.MapOf[string, map[string]types.AttributeValue]](),
		handlers: map[string][]recordstore.ChangeHandler{},
	}
}

func (s *MemoryStore) table(recordType string) *xsync.MapOf[string, map[string]types.AttributeValue] {
	t, _ := s.tables.LoadOrStore(
		recordType, xsync.NewMapOf[map[string]types.AttributeValue]())
	return t
}

func (s *MemoryStore) Get(ctx context.Context, recordType, id string, out any) error {
	if s.FailWith != nil {
		return s.FailWith
	}

	item, ok := s.table(recordType).Load(id)
	if !ok {
		return recordstore.ErrNotFound
	}

	return attributevalue.UnmarshalMap(item, out)
}

func (s *MemoryStore) Put(ctx context.Context, recordType string, record any) error {
	if s.FailWith != nil {
		return s.FailWith
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return err
	}

	id, err := itemID(item)
	if err != nil {
		return err
	}

	s.table(recordType).Store(id, item)
	s.deliver(ctx, recordstore.Change{
		RecordType: recordType,
		Kind:       recordstore.ChangePut,
		ID:         id,
	})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, recordType, id string) error {
	if s.FailWith != nil {
		return s.FailWith
	}

	s.table(recordType).Delete(id)
	s.deliver(ctx, recordstore.Change{
		RecordType: recordType,
		Kind:       recordstore.ChangeDelete,
		ID:         id,
	})
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, recordType string, q recordstore.Query, out any) error {
	if s.FailWith != nil {
		return s.FailWith
	}

	matched, err := s.match(recordType, q.Predicate)
	if err != nil {
		return err
	}

	// Unlike the production driver, the fake honors the sort hint before
	// truncating. Tests relying on the truncate-before-sort caveat must
	// construct data sets small enough to not hit the limit.
	if q.Sort != nil {
		recordstore.SortItems(matched, *q.Sort)
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return attributevalue.UnmarshalListOfMaps(matched, out)
}

func (s *MemoryStore) Count(ctx context.Context, recordType string, pred recordstore.Predicate) (int64, error) {
	if s.FailWith != nil {
		return 0, s.FailWith
	}

	matched, err := s.match(recordType, pred)
	if err != nil {
		return 0, err
	}

	return int64(len(matched)), nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, recordType string, handler recordstore.ChangeHandler) error {
	if s.FailWith != nil {
		return s.FailWith
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.handlers[recordType] = append(s.handlers[recordType], handler)
	return nil
}

func (s *MemoryStore) match(
	recordType string, pred recordstore.Predicate,
) ([]map[string]types.AttributeValue, error) {
	var matched []map[string]types.AttributeValue
	var matchErr error
	s.table(recordType).Range(func(id string, item map[string]types.AttributeValue) bool {
		ok, err := recordstore.Match(item, pred)
		if err != nil {
			matchErr = err
			return false
		}

		if ok {
			matched = append(matched, item)
		}
		return true
	})

	return matched, matchErr
}

// deliver pushes the change to subscribed handlers synchronously, which
// keeps tests free of sleeps.
func (s *MemoryStore) deliver(ctx context.Context, change recordstore.Change) {
	s.mutex.Lock()
	handlers := append([]recordstore.ChangeHandler{}, s.handlers[change.RecordType]...)
	s.mutex.Unlock()

	for _, h := range handlers {
		h(ctx, change)
	}
}

func itemID(item map[string]types.AttributeValue) (string, error) {
	attr, ok := item["id"]
	if !ok {
		return "", fmt.Errorf("record has no id attribute")
	}

	s, ok := attr.(*types.AttributeValueMemberS)
	if !ok || s.Value == "" {
		return "", fmt.Errorf("record id must be a non-empty string")
	}

	return s.Value, nil
}
