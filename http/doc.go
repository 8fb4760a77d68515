// Package http serves the gallery's JSON API and its browser page.
//
// # Routes
//
//	GET    /                  gallery page (see package ui)
//	GET    /static/*          embedded page assets
//	GET    /health            {"status":"ok","ts":"..."}
//	GET    /api/s3/presign    ?filename=&contentType= -> {uploadUrl,key,publicUrl}
//	POST   /api/db/save       {id,url,contentType?,note?} -> {ok,item}
//	GET    /api/db/list       {items:[...]} newest first, at most 100
//	POST   /api/db/update     {id,note?,url?} -> {ok,item}
//	DELETE /api/db/delete     ?id= or {id} -> {ok,deleted:{ddb,s3}}
//
// JSON bodies are limited to MaxBodyBytes.
//
// # Errors
//
// Failures are returned as ErrorResponse. HandleError maps
// gallery.ErrInvalidInput and malformed bodies to 400, and
// gallery.ErrUpstream to 500 with the backend error text in Detail.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Title:     "Gallery",
//	    BucketURL: store.BucketURL(),
//	}, service)
//	srv := &nethttp.Server{Addr: ":3000", Handler: handler.Router()}
//
// The service parameter must implement the Service interface, which
// *gallery.GalleryService does.
package http
