package domain

import (
	"encoding/base64"
	"strconv"
)

// DefaultMaxResults is the page size used when none is specified.
const DefaultMaxResults = 100

// MaxMaxResults caps the page size a caller may request.
const MaxMaxResults = 1000

// PageRequest holds pagination parameters for list operations. The token is
// an opaque base64-encoded offset into the pre-filter sequence; when list
// results are narrowed by authorization afterwards, a page may legitimately
// come back shorter than the requested size.
type PageRequest struct {
	MaxResults int
	PageToken  string
}

// Offset decodes the page token. Empty or malformed tokens decode to 0.
func (p PageRequest) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	raw, err := base64.StdEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Limit returns the effective page size, clamped to [1, MaxMaxResults].
func (p PageRequest) Limit() int {
	switch {
	case p.MaxResults <= 0:
		return DefaultMaxResults
	case p.MaxResults > MaxMaxResults:
		return MaxMaxResults
	default:
		return p.MaxResults
	}
}

// NextPageToken returns the token for the page after the given offset, or
// "" when the sequence is exhausted.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(next)))
}
