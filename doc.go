// Package gallery provides the metadata-record lifecycle of a small upload
// gallery: it mints object keys, issues presigned upload URLs, and keeps a
// key-value table of records that point at objects in a binary store.
//
// The binary payload never flows through the service. A client asks for an
// upload authorization, PUTs the object straight to the store, and then saves
// a record referencing it.
//
// # Key Components
//
//   - GalleryService: Presign, Save, List, Update and Delete
//   - KeyMinter: collision-resistant keys under a fixed upload prefix
//   - MetaDataRepo: Interface for the record table (DynamoDB, SQLite, PostgreSQL, Redis)
//   - ObjectStore: Interface for presigning and deleting objects (S3, MinIO)
//
// # Identifiers
//
// Every record id is an object key and must start with the configured upload
// prefix. Save, Update and Delete reject any other id with ErrInvalidInput
// before a store is contacted.
//
// # Consistency
//
// There is no transaction between the table and the object store. Delete
// removes the record first and then tries the object once; if that fails the
// object is orphaned and DeleteResult.Deleted.S3 is false.
//
// # Example Usage
//
//	service, err := gallery.NewGalleryService(repo, store, gallery.ServiceConfig{
//	    UploadPrefix: "uploads/",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	auth, err := service.Presign(ctx, "cat.png", "image/png")
//	// PUT the file to auth.UploadURL, then:
//	rec, err := service.Save(ctx, gallery.SaveRequest{ID: auth.Key, URL: auth.PublicURL})
//
// See the http package for the JSON API and the database and objectstore
// packages for backend implementations.
package gallery
