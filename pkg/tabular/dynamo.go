package tabular

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

// DynamoStore maps the tabular contract onto one physical DynamoDB table:
// partition key "tbl" is the logical table name, sort key "seq" preserves
// append order. Reads are consistent so read-modify-write sequences see
// their own writes.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

type dynamoItem struct {
	Table string   `dynamodbav:"tbl"`
	Seq   int64    `dynamodbav:"seq"`
	Cols  []string `dynamodbav:"cols"`
}

// NewDynamo builds the adapter. A non-empty endpoint points the client at a
// local DynamoDB instead of AWS.
func NewDynamo(ctx context.Context, tableName, region, endpoint string) (*DynamoStore, error) {
	if tableName == "" {
		return nil, errors.New("dynamo store needs a table name")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}
	if endpoint != "" {
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint, SigningRegion: region}, nil
			})
	}
	return &DynamoStore{client: dynamodb.NewFromConfig(awsCfg), tableName: tableName}, nil
}

func (s *DynamoStore) Append(ctx context.Context, table string, row Row) error {
	last, err := s.lastSeq(ctx, table)
	if err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(dynamoItem{Table: table, Seq: last + 1, Cols: row})
	if err != nil {
		return errors.Wrapf(err, "marshaling row for %q", table)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return errors.Wrapf(err, "PutItem for %q", table)
}

func (s *DynamoStore) lastSeq(ctx context.Context, table string) (int64, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("tbl = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: table},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
		ConsistentRead:   aws.Bool(true),
	})
	if err != nil {
		return 0, errors.Wrapf(err, "querying last seq for %q", table)
	}
	if len(out.Items) == 0 {
		return 0, nil
	}
	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return 0, errors.Wrapf(err, "unmarshaling last item of %q", table)
	}
	return item.Seq, nil
}

func (s *DynamoStore) readItems(ctx context.Context, table string) ([]dynamoItem, error) {
	var items []dynamoItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("tbl = :t"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":t": &types.AttributeValueMemberS{Value: table},
			},
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "querying %q", table)
		}
		for _, raw := range out.Items {
			var item dynamoItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, errors.Wrapf(err, "unmarshaling item of %q", table)
			}
			items = append(items, item)
		}
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *DynamoStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	items, err := s.readItems(ctx, table)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, Row(item.Cols))
	}
	return rows, nil
}

func (s *DynamoStore) DeleteRow(ctx context.Context, table string, index int) error {
	items, err := s.readItems(ctx, table)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return errors.Errorf("row %d out of range for table %q (%d rows)", index, table, len(items))
	}
	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"tbl": &types.AttributeValueMemberS{Value: table},
			"seq": &types.AttributeValueMemberN{Value: strconv.FormatInt(items[index].Seq, 10)},
		},
	})
	return errors.Wrapf(err, "DeleteItem %d of %q", index, table)
}

func (s *DynamoStore) Close() error { return nil }
