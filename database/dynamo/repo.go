// Package dynamo implements gallery.MetaDataRepo on an Amazon DynamoDB table
// keyed by the string attribute "id".
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/sagarc03/gallery"
)

// API is the subset of *dynamodb.Client used by the repo and its migrations.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

const hashKey = "id"

type Repo struct {
	api       API
	tableName string
}

func NewRepo(api API, tables gallery.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{api: api, tableName: tables.MetaData}, nil
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		hashKey: &types.AttributeValueMemberS{Value: id},
	}
}

// Put writes rec as a whole item. Empty attributes are omitted.
func (r *Repo) Put(ctx context.Context, rec gallery.Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("put: marshal: %w", err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// Scan issues a single Scan page of at most limit items.
func (r *Repo) Scan(ctx context.Context, limit int) ([]gallery.Record, error) {
	out, err := r.api.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(int32(limit)), //nolint:gosec // G115: limit is gallery.ListLimit
	})
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	records := []gallery.Record{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("scan: unmarshal: %w", err)
	}
	return records, nil
}

// Patch applies the patch with one UpdateItem call and returns ALL_NEW
// attributes. An empty note becomes a REMOVE action.
func (r *Repo) Patch(ctx context.Context, id string, patch gallery.RecordPatch) (gallery.Record, error) {
	update, err := buildUpdate(patch)
	if err != nil {
		return gallery.Record{}, fmt.Errorf("patch %s: %w", id, err)
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       itemKey(id),
		UpdateExpression:          update.Update(),
		ExpressionAttributeNames:  update.Names(),
		ExpressionAttributeValues: update.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return gallery.Record{}, fmt.Errorf("patch %s: %w", id, err)
	}

	var rec gallery.Record
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return gallery.Record{}, fmt.Errorf("patch %s: unmarshal: %w", id, err)
	}
	return rec, nil
}

func buildUpdate(patch gallery.RecordPatch) (expression.Expression, error) {
	if patch.IsEmpty() {
		return expression.Expression{}, fmt.Errorf("%w: empty patch", gallery.ErrInvalidInput)
	}

	var update expression.UpdateBuilder
	if patch.Note != nil {
		if *patch.Note == "" {
			update = update.Remove(expression.Name("note"))
		} else {
			update = update.Set(expression.Name("note"), expression.Value(*patch.Note))
		}
	}
	if patch.URL != nil {
		update = update.Set(expression.Name("url"), expression.Value(*patch.URL))
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return expression.Expression{}, fmt.Errorf("build update expression: %w", err)
	}
	return expr, nil
}

// Delete removes the item. DynamoDB treats a missing key as success.
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(id),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}
