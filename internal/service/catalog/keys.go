package catalog

import (
	"strings"

	"lakegate/internal/domain"
)

// QualifiedKey joins parent and leaf names into the dotted lookup key the
// binder resolvers expect, e.g. "sales.q1.orders" for a table. Names are
// validated identifiers and cannot contain dots themselves.
func QualifiedKey(parts ...string) string {
	return strings.Join(parts, ".")
}

// splitQualified splits a dotted lookup key into parent segments and the
// leaf name. A malformed key cannot name a securable, so it resolves the
// same way an unknown name does.
func splitQualified(key string, parts int) ([]string, string, error) {
	segs := strings.Split(key, ".")
	if len(segs) != parts {
		return nil, "", domain.ErrNotFound("unknown securable %q", key)
	}
	return segs[:parts-1], segs[parts-1], nil
}
