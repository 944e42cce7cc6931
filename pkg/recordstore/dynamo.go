package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cameronsaddress/snapchef-social/pkg/logger"
	"github.com/cameronsaddress/snapchef-social/pkg/pubsub"
)

// SubscriberFactory builds a subscriber feeding change envelopes into the
// handler. In production this is backed by a kafka consumer group.
type SubscriberFactory func(handler pubsub.SubscribeHandler) pubsub.Subscriber

type dynamoStore struct {
	client      *dynamodb.Client
	tablePrefix string

	publisher     pubsub.Publisher
	changeTopic   string
	newSubscriber SubscriberFactory

	logger logger.Logger
}

type DynamoOption func(*dynamoStore)

// WithChangePublisher makes every Put and Delete publish a change envelope,
// best-effort. Without it, Subscribe has nothing to deliver.
func WithChangePublisher(pub pubsub.Publisher, topic string) DynamoOption {
	return func(s *dynamoStore) {
		s.publisher = pub
		s.changeTopic = topic
	}
}

func WithSubscriberFactory(f SubscriberFactory) DynamoOption {
	return func(s *dynamoStore) {
		s.newSubscriber = f
	}
}

func WithStoreLogger(l logger.Logger) DynamoOption {
	return func(s *dynamoStore) {
		s.logger = l
	}
}

func NewDynamoStore(client *dynamodb.Client, tablePrefix string, opts ...DynamoOption) *dynamoStore {
	s := &dynamoStore{
		client:      client,
		tablePrefix: tablePrefix,
		logger:      logger.NewLogger(logger.INFO),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewDynamoClient initializes the DynamoDB client from the ambient AWS
// configuration.
func NewDynamoClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg), nil
}

func (s *dynamoStore) tableName(recordType string) string {
	return fmt.Sprintf("%s-%s", s.tablePrefix, recordType)
}

func (s *dynamoStore) Get(ctx context.Context, recordType, id string, out any) error {
	tableName := s.tableName(recordType)
	output, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}

	if len(output.Item) == 0 {
		return ErrNotFound
	}

	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return nil
}

func (s *dynamoStore) Put(ctx context.Context, recordType string, record any) error {
	tableName := s.tableName(recordType)
	marshaledItem, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaledItem,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}

	if idAttr, ok := marshaledItem["id"].(*types.AttributeValueMemberS); ok {
		s.publishChange(ctx, Change{RecordType: recordType, Kind: ChangePut, ID: idAttr.Value})
	}

	return nil
}

func (s *dynamoStore) Delete(ctx context.Context, recordType, id string) error {
	tableName := s.tableName(recordType)
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}

	s.publishChange(ctx, Change{RecordType: recordType, Kind: ChangeDelete, ID: id})
	return nil
}

func (s *dynamoStore) Query(ctx context.Context, recordType string, q Query, out any) error {
	items, err := s.scan(ctx, recordType, q.Predicate, q.Limit)
	if err != nil {
		return err
	}

	// The sort hint is honored after the fetch already truncated at the
	// limit. Callers that care re-sort and overscan themselves.
	if q.Sort != nil {
		SortItems(items, *q.Sort)
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal scan result: %w", err)
	}

	return nil
}

func (s *dynamoStore) Count(ctx context.Context, recordType string, pred Predicate) (int64, error) {
	tableName := s.tableName(recordType)
	input := &dynamodb.ScanInput{
		TableName: &tableName,
		Select:    types.SelectCount,
	}
	if err := applyFilter(input, pred); err != nil {
		return 0, err
	}

	var total int64
	for {
		output, err := s.client.Scan(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("failed to count table '%s': %w", tableName, err)
		}

		total += int64(output.Count)
		if output.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return total, nil
}

func (s *dynamoStore) Subscribe(ctx context.Context, recordType string, handler ChangeHandler) error {
	if s.newSubscriber == nil {
		return errors.New("change subscriptions are not configured for this store")
	}

	sub := s.newSubscriber(func(ctx context.Context, pack *pubsub.Pack, _ time.Time) {
		var change Change
		if err := json.Unmarshal(pack.Msg, &change); err != nil {
			s.logger.Warnf("Cannot decode change envelope: %v", err)
			return
		}

		if change.RecordType != recordType {
			return
		}

		handler(ctx, change)
	})

	sub.Subscribe(ctx)
	return nil
}

func (s *dynamoStore) scan(
	ctx context.Context, recordType string, pred Predicate, limit int,
) ([]map[string]types.AttributeValue, error) {
	tableName := s.tableName(recordType)
	input := &dynamodb.ScanInput{TableName: &tableName}
	if err := applyFilter(input, pred); err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table '%s': %w", tableName, err)
		}

		items = append(items, output.Items...)
		if limit > 0 && len(items) >= limit {
			return items[:limit], nil
		}

		if output.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

func (s *dynamoStore) publishChange(ctx context.Context, change Change) {
	if s.publisher == nil {
		return
	}

	msg, err := json.Marshal(change)
	if err != nil {
		s.logger.Warnf("Cannot marshal change envelope: %v", err)
		return
	}

	// Change propagation is best-effort. A missed notification is healed by
	// the next periodic sync, so a publish failure never fails the write.
	err = s.publisher.Publish(ctx, s.changeTopic, &pubsub.Pack{Key: []byte(change.ID), Msg: msg})
	if err != nil {
		s.logger.Warnf("Cannot publish change of %s/%s: %v", change.RecordType, change.ID, err)
	}
}

func applyFilter(input *dynamodb.ScanInput, pred Predicate) error {
	if len(pred) == 0 {
		return nil
	}

	expression, names, values, err := compilePredicate(pred)
	if err != nil {
		return err
	}

	input.FilterExpression = aws.String(expression)
	input.ExpressionAttributeNames = names
	input.ExpressionAttributeValues = values
	return nil
}

// compilePredicate renders the typed predicate into a DynamoDB filter
// expression with its name and value maps.
func compilePredicate(pred Predicate) (string, map[string]string, map[string]types.AttributeValue, error) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	expression := ""

	for i, cond := range pred {
		nameKey := fmt.Sprintf("#f%d", i)
		names[nameKey] = cond.Field

		marshaled := make([]string, 0, len(cond.Values))
		for j, v := range cond.Values {
			valueKey := fmt.Sprintf(":v%d_%d", i, j)
			attr, err := attributevalue.Marshal(v)
			if err != nil {
				return "", nil, nil, fmt.Errorf("failed to marshal predicate value: %w", err)
			}

			values[valueKey] = attr
			marshaled = append(marshaled, valueKey)
		}

		var part string
		switch cond.Op {
		case OpEq:
			part = fmt.Sprintf("%s = %s", nameKey, marshaled[0])
		case OpIn:
			part = fmt.Sprintf("%s IN (%s)", nameKey, stringJoin(marshaled, ", "))
		case OpLt:
			part = fmt.Sprintf("%s < %s", nameKey, marshaled[0])
		case OpLte:
			part = fmt.Sprintf("%s <= %s", nameKey, marshaled[0])
		case OpGt:
			part = fmt.Sprintf("%s > %s", nameKey, marshaled[0])
		case OpGte:
			part = fmt.Sprintf("%s >= %s", nameKey, marshaled[0])
		case OpBeginsWith:
			part = fmt.Sprintf("begins_with(%s, %s)", nameKey, marshaled[0])
		case OpContains:
			part = fmt.Sprintf("contains(%s, %s)", nameKey, marshaled[0])
		default:
			return "", nil, nil, fmt.Errorf("unsupported predicate op %s", cond.Op)
		}

		if expression == "" {
			expression = part
		} else {
			expression += " AND " + part
		}
	}

	return expression, names, values, nil
}

func stringJoin(parts []string, delimiter string) string {
	result := ""
	for i, part := range parts {
		if i > 0 {
			result += delimiter
		}
		result += part
	}
	return result
}
