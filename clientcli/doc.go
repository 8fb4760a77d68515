// Package clientcli is a client library for a gallery server's JSON API,
// used by gallery-cli.
//
// Uploads follow the same three steps as the browser page: ask the server
// for a presigned URL, PUT the file to the object store, then save the
// metadata record.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:3000"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./cat.png",
//		Note:      "the cat",
//	})
//
// # Profiles
//
// Server endpoints can be kept in a YAML file (default
// ~/.gallery/config.yaml):
//
//	profiles:
//	  - name: local
//	    endpoint: http://localhost:3000
//	    default: true
//
// # Errors
//
// Non-2xx responses are returned as *APIError. Compare with errors.Is
// against ErrBadRequest, ErrNotFound or ErrUpstream.
package clientcli
