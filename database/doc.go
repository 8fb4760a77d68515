// Package database provides a unified entry point for connecting to record
// table backends.
//
// # Supported Backends
//
//   - dynamodb: Amazon DynamoDB table keyed by "id" (the production default)
//   - sqlite: Embedded backend for development and single-node deployments
//   - postgres: PostgreSQL through a pgx connection pool
//   - redis: One hash per record under "<table>:<id>"
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "dynamodb",
//	    Table:  "uploads",
//	    Region: "us-east-1",
//	}
//
//	repo, cleanup, err := database.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
// Connect validates the table before returning. The SQL backends create a
// missing table on connect; a DynamoDB table must be created with Init
// (exposed as `gallery init`).
//
// # Subpackages
//
//   - database/dynamo: aws-sdk-go-v2 DynamoDB client
//   - database/sqlite: modernc.org/sqlite
//   - database/postgres: pgx
//   - database/redis: go-redis
package database
