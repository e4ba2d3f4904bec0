package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kgpnow-api/internal/domain"
	"github.com/samber/oops"
)

// AccountRepo stores accounts in a table keyed by normalized email, with a
// user_id GSI for lookups by ID. Each write replaces the whole item.
type AccountRepo struct {
	client    API
	tableName string
}

func NewAccountRepo(client API, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName}
}

// Create inserts a new account, failing with domain.ErrDuplicateAccount when the email is taken.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#e)"),
		ExpressionAttributeNames: map[string]string{"#e": attrEmail},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return domain.ErrDuplicateAccount
	}
	return oops.In("dynamo").With("table", r.tableName).Wrapf(err, "create account")
}

// Save upserts the full account document. Attributes absent from a (a cleared OTP pair) are removed.
func (r *AccountRepo) Save(ctx context.Context, a *domain.Account) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return oops.In("dynamo").With("table", r.tableName).Wrapf(err, "save account")
}

// GetByEmail returns the account for a normalized email or domain.ErrNotFound.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(attrEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, oops.In("dynamo").With("table", r.tableName).Wrapf(err, "get account")
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	return &a, nil
}

// GetByID looks an account up through the user_id GSI.
func (r *AccountRepo) GetByID(ctx context.Context, userID string) (*domain.Account, error) {
	cond, names, values := eqQuery(attrUserID, userID)
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexUserID),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, oops.In("dynamo").With("table", r.tableName).With("user_id", userID).Wrapf(err, "query account")
	}
	if len(out.Items) == 0 {
		return nil, domain.ErrNotFound
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	return &a, nil
}
