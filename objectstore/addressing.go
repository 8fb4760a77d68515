package objectstore

import (
	"net/url"
	"strings"
)

// DefaultURLTemplate is the virtual-hosted-style AWS public object URL.
const DefaultURLTemplate = "https://{bucket}.s3.{region}.amazonaws.com/{key}"

// URLTemplate renders deterministic public URLs for object keys.
type URLTemplate struct {
	template string
	bucket   string
	region   string
}

// NewURLTemplate creates a URLTemplate. An empty template uses
// DefaultURLTemplate.
func NewURLTemplate(template, bucket, region string) URLTemplate {
	if template == "" {
		template = DefaultURLTemplate
	}
	return URLTemplate{template: template, bucket: bucket, region: region}
}

// URL returns the public URL for key. Each path segment of key is escaped,
// the separators are kept.
func (u URLTemplate) URL(key string) string {
	r := strings.NewReplacer(
		"{bucket}", u.bucket,
		"{region}", u.region,
		"{key}", escapeKey(key),
	)
	return r.Replace(u.template)
}

// BucketURL returns the URL of the bucket root (the template with an empty key).
func (u URLTemplate) BucketURL() string {
	return u.URL("")
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
