package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/sagarc03/gallery"
)

// tableWaitTimeout bounds how long Migrate waits for a new table to become ACTIVE.
const tableWaitTimeout = 2 * time.Minute

// Migrate creates the table with an "id" string hash key and on-demand billing
// when it does not exist, then waits for it to become active. An existing
// table is left untouched.
func Migrate(ctx context.Context, api API, tables gallery.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	_, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tables.MetaData)})
	if err == nil {
		slog.Debug("dynamodb table exists", "table", tables.MetaData)
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("migrate %s: describe table: %w", tables.MetaData, err)
	}

	_, err = api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tables.MetaData),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(hashKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("migrate %s: create table: %w", tables.MetaData, err)
	}

	slog.Info("created dynamodb table", "table", tables.MetaData)

	waiter := dynamodb.NewTableExistsWaiter(api)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tables.MetaData)}, tableWaitTimeout); err != nil {
		return fmt.Errorf("migrate %s: wait for table: %w", tables.MetaData, err)
	}
	return nil
}

// ValidateSchema checks that the table exists and is keyed by a string "id"
// hash key with no range key.
func ValidateSchema(ctx context.Context, api API, tables gallery.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	out, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tables.MetaData)})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("validate schema %s: table does not exist (run `gallery init`)", tables.MetaData)
		}
		return fmt.Errorf("validate schema %s: describe table: %w", tables.MetaData, err)
	}

	table := out.Table
	if table == nil || len(table.KeySchema) != 1 ||
		aws.ToString(table.KeySchema[0].AttributeName) != hashKey ||
		table.KeySchema[0].KeyType != types.KeyTypeHash {
		return fmt.Errorf("validate schema %s: key schema must be a single %q hash key", tables.MetaData, hashKey)
	}

	for _, def := range table.AttributeDefinitions {
		if aws.ToString(def.AttributeName) == hashKey && def.AttributeType != types.ScalarAttributeTypeS {
			return fmt.Errorf("validate schema %s: %q must be a string attribute, got %s", tables.MetaData, hashKey, def.AttributeType)
		}
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.ResourceNotFoundException
	if errors.As(err, &nf) {
		return true
	}
	// DynamoDB Local and LocalStack sometimes surface the code only.
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}
