// Package objectstore implements gallery.ObjectStore on top of S3-compatible
// services.
//
// Two drivers are available:
//
//   - "s3": AWS S3 through aws-sdk-go-v2 (presign client + DeleteObject)
//   - "minio": any S3-compatible endpoint through minio-go
//
// Neither driver moves object bytes. Presigning is a local signing step and
// only Delete performs a network call.
//
// Public URLs are rendered from a template with {bucket}, {region} and {key}
// placeholders. The default is the virtual-hosted AWS form
// https://{bucket}.s3.{region}.amazonaws.com/{key}.
package objectstore
