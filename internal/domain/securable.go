package domain

import "fmt"

// SecurableType identifies a level of the resource hierarchy. The ordering
// (see Level) is used only to validate privilege placement; access is never
// derived from it implicitly.
type SecurableType string

const (
	SecurableMetastore SecurableType = "metastore"
	SecurableCatalog   SecurableType = "catalog"
	SecurableSchema    SecurableType = "schema"
	SecurableTable     SecurableType = "table"
	SecurableFunction  SecurableType = "function"
)

// SecurableTypes lists all securable types in hierarchy order.
var SecurableTypes = []SecurableType{
	SecurableMetastore,
	SecurableCatalog,
	SecurableSchema,
	SecurableTable,
	SecurableFunction,
}

// Level returns the hierarchy depth of the securable type. The metastore is
// level 0; tables and functions share the leaf level.
func (t SecurableType) Level() int {
	switch t {
	case SecurableMetastore:
		return 0
	case SecurableCatalog:
		return 1
	case SecurableSchema:
		return 2
	case SecurableTable, SecurableFunction:
		return 3
	default:
		return -1
	}
}

// Valid reports whether t is a known securable type.
func (t SecurableType) Valid() bool { return t.Level() >= 0 }

// ParseSecurableType converts a string into a SecurableType.
func ParseSecurableType(s string) (SecurableType, error) {
	t := SecurableType(s)
	if !t.Valid() {
		return "", ErrValidation("unknown securable type %q", s)
	}
	return t, nil
}

// SecurableRef identifies one resource instance: a (type, id) pair. The
// metastore has exactly one instance per deployment; every other securable
// is identified by a generated id unique within its type.
type SecurableRef struct {
	Type SecurableType
	ID   string
}

// Ref is shorthand for constructing a SecurableRef.
func Ref(t SecurableType, id string) SecurableRef {
	return SecurableRef{Type: t, ID: id}
}

func (r SecurableRef) String() string {
	return fmt.Sprintf("%s/%s", r.Type, r.ID)
}
