package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kgpnow-api/internal/domain"
	"github.com/samber/oops"
)

// EventRepo provides typed DynamoDB operations for the events table.
type EventRepo struct {
	client    API
	tableName string
}

func NewEventRepo(client API, tableName string) *EventRepo {
	return &EventRepo{client: client, tableName: tableName}
}

func (r *EventRepo) Put(ctx context.Context, e *domain.Event) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return oops.In("dynamo").With("table", r.tableName).Wrapf(err, "put event")
}

func (r *EventRepo) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(attrEventID, eventID),
	})
	if err != nil {
		return nil, oops.In("dynamo").With("table", r.tableName).Wrapf(err, "get event")
	}
	if out.Item == nil {
		return nil, domain.ErrEventNotFound
	}
	var e domain.Event
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &e, nil
}

// ExistsByDedupKey reports whether an event with the same identifying fields exists.
func (r *EventRepo) ExistsByDedupKey(ctx context.Context, key string) (bool, error) {
	cond, names, values := eqQuery(attrDedupKey, key)
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexDedupKey),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return false, oops.In("dynamo").With("table", r.tableName).Wrapf(err, "query event dedup key")
	}
	return len(out.Items) > 0, nil
}

// List returns all events, newest first. A non-empty category filters the scan.
func (r *EventRepo) List(ctx context.Context, category string) ([]domain.Event, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if category != "" {
		input.FilterExpression = aws.String("#c = :c")
		input.ExpressionAttributeNames = map[string]string{"#c": attrCategory}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: category},
		}
	}

	events := []domain.Event{}
	p := dynamodb.NewScanPaginator(r.client, input)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, oops.In("dynamo").With("table", r.tableName).Wrapf(err, "scan events")
		}
		var page []domain.Event
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal events: %w", err)
		}
		events = append(events, page...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}
