// Package config provides configuration loading and validation for the
// gallery server.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (GALLERY_ prefix, then legacy names)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with GALLERY_ prefix:
//   - server.port → GALLERY_SERVER_PORT
//   - storage.bucket → GALLERY_STORAGE_BUCKET
//   - database.type → GALLERY_DATABASE_TYPE
//
// A few keys also read the unprefixed names older deployments used:
// PORT, S3_BUCKET, S3_REGION, S3_UPLOAD_PREFIX, DDB_TABLE and AWS_REGION
// (the DynamoDB region). database.region falls back to storage.region.
//
// # Configuration Structure
//
//   - Env: "prod"/"production" switches logging to JSON
//   - Server: port, page title and shutdown timeout
//   - Storage: object store driver, bucket, credentials, upload prefix and presign expiry
//   - Database: metadata backend type, DSN, table, region and endpoint
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
package config
