package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute and index names shared by the repositories and Bootstrap.
const (
	attrEmail    = "email"
	attrUserID   = "user_id"
	attrEventID  = "event_id"
	attrDedupKey = "dedup_key"
	attrCategory = "category"

	indexUserID   = "user_id-index"
	indexDedupKey = "dedup_key-index"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// eqQuery builds the key condition parts for "attr = value".
func eqQuery(attr, value string) (string, map[string]string, map[string]types.AttributeValue) {
	return "#a = :v",
		map[string]string{"#a": attr},
		map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}}
}
