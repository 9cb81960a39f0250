package domain

// Privilege is a named action a principal can be granted on a securable.
type Privilege string

// OWNER is universal across securable types and exclusive: at most one
// principal holds it on a given securable at any time. All other privileges
// are scoped to specific securable types and may be granted to many
// principals independently.
const (
	PrivOwner Privilege = "OWNER"

	PrivCreateCatalog  Privilege = "CREATE_CATALOG"
	PrivUseCatalog     Privilege = "USE_CATALOG"
	PrivCreateSchema   Privilege = "CREATE_SCHEMA"
	PrivUseSchema      Privilege = "USE_SCHEMA"
	PrivCreateTable    Privilege = "CREATE_TABLE"
	PrivCreateFunction Privilege = "CREATE_FUNCTION"
	PrivSelect         Privilege = "SELECT"
	PrivModify         Privilege = "MODIFY"
	PrivExecute        Privilege = "EXECUTE"
)

// privilegeScope maps each non-OWNER privilege to the securable types it is
// meaningful on.
var privilegeScope = map[Privilege][]SecurableType{
	PrivCreateCatalog:  {SecurableMetastore},
	PrivUseCatalog:     {SecurableCatalog},
	PrivCreateSchema:   {SecurableCatalog},
	PrivUseSchema:      {SecurableSchema},
	PrivCreateTable:    {SecurableSchema},
	PrivCreateFunction: {SecurableSchema},
	PrivSelect:         {SecurableTable},
	PrivModify:         {SecurableTable},
	PrivExecute:        {SecurableFunction},
}

// ValidFor reports whether the privilege is meaningful on the given
// securable type. OWNER is valid everywhere.
func (p Privilege) ValidFor(t SecurableType) bool {
	if p == PrivOwner {
		return t.Valid()
	}
	for _, st := range privilegeScope[p] {
		if st == t {
			return true
		}
	}
	return false
}

// ParsePrivilege converts a string into a Privilege.
func ParsePrivilege(s string) (Privilege, error) {
	p := Privilege(s)
	if p == PrivOwner {
		return p, nil
	}
	if _, ok := privilegeScope[p]; !ok {
		return "", ErrValidation("unknown privilege %q", s)
	}
	return p, nil
}

// PrivilegesFor returns the non-OWNER privileges valid on a securable type.
func PrivilegesFor(t SecurableType) []Privilege {
	var out []Privilege
	for p, types := range privilegeScope {
		for _, st := range types {
			if st == t {
				out = append(out, p)
			}
		}
	}
	return out
}
