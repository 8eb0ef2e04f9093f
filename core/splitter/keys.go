package splitter

import (
	"fmt"
	"time"
)

// MakeKey returns the object key for one segment. index is 1-based to match
// the stored object names. The request ID scopes keys to one request, so
// uniqueness does not depend on clock resolution across concurrent requests;
// the millisecond timestamp keeps repeated requests with the same prefix
// apart in listings. Never fails.
func MakeKey(prefix, requestID string, index int, ext string) string {
	return fmt.Sprintf("%s/%s/segment_%d_%d%s", prefix, requestID, index, time.Now().UnixMilli(), ext)
}

// extForContentType picks the key suffix matching the payload's container.
func extForContentType(contentType string) string {
	switch contentType {
	case "audio/wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	default:
		return ".bin"
	}
}
