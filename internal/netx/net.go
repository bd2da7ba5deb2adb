// Package netx builds public URLs for mirrored objects.
package netx

import (
	"net/url"
	"strings"
)

// EscapeKey percent-escapes each "/"-separated segment of an object key.
func EscapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// JoinURL appends an object key to base, normalising the slash between them.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + EscapeKey(strings.TrimLeft(key, "/"))
}

// VirtualHostURL returns scheme://bucket.host/key for an endpoint such as
// https://oss-cn-hangzhou.aliyuncs.com. It falls back to path style when the
// endpoint cannot be parsed.
func VirtualHostURL(endpoint, bucket, key string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return JoinURL(endpoint, bucket+"/"+key)
	}
	u.Host = bucket + "." + u.Host
	u.Path = ""
	u.RawQuery = ""
	return JoinURL(u.String(), key)
}
