package auth

import "slices"

// Role is an organizational role read from a user's profile.
type Role string

const (
	RoleAdmin               Role = "admin"
	RoleMestreConselheiro   Role = "mestre_conselheiro"
	RolePrimeiroConselheiro Role = "primeiro_conselheiro"
	RoleSegundoConselheiro  Role = "segundo_conselheiro"
	RoleEscrivao            Role = "escrivao"
	RoleTesoureiro          Role = "tesoureiro"
	RolePresidenteConselho  Role = "presidente_conselho"
	RoleMembro              Role = "membro"
)

// Roles lists every known role.
var Roles = []Role{
	RoleAdmin, RoleMestreConselheiro, RolePrimeiroConselheiro, RoleSegundoConselheiro,
	RoleEscrivao, RoleTesoureiro, RolePresidenteConselho, RoleMembro,
}

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, slices.Contains(Roles, r)
}

// Resource is a group of records or documents guarded by the policy.
type Resource string

const (
	ResourceMembers      Resource = "members"
	ResourceNews         Resource = "news"
	ResourceCalendar     Resource = "calendar"
	ResourceRollCalls    Resource = "rollcalls"
	ResourceAtas         Resource = "atas"
	ResourceFinance      Resource = "finance"
	ResourceProfiles     Resource = "profiles"
	ResourceJoinRequests Resource = "join_requests"
	ResourceDocuments    Resource = "documents"
	ResourceTemplates    Resource = "templates"
)

// Action is what is done to a resource.
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionPublish Action = "publish"
)

// Any marks an action open to every authenticated identity.
var Any []Role

// Policy maps resource and action to the roles allowed. An action present
// with a nil list allows any authenticated identity; a missing action
// allows nobody but admin.
type Policy map[Resource]map[Action][]Role

var secretariat = []Role{RoleMestreConselheiro, RoleEscrivao}

// DefaultPolicy is the chapter's access table.
var DefaultPolicy = Policy{
	ResourceMembers:   {ActionRead: Any, ActionWrite: secretariat},
	ResourceNews:      {ActionRead: Any, ActionWrite: secretariat},
	ResourceCalendar:  {ActionRead: Any, ActionWrite: secretariat},
	ResourceRollCalls: {ActionRead: Any, ActionWrite: secretariat},
	ResourceAtas: {
		ActionRead:    Any,
		ActionWrite:   secretariat,
		ActionPublish: {RoleEscrivao},
	},
	ResourceFinance: {
		ActionRead:  {RoleTesoureiro, RoleMestreConselheiro, RolePresidenteConselho},
		ActionWrite: {RoleTesoureiro},
	},
	ResourceProfiles: {
		ActionRead: {RoleMestreConselheiro},
	},
	ResourceJoinRequests: {
		ActionRead:  secretariat,
		ActionWrite: secretariat,
	},
	ResourceDocuments: {
		ActionRead: {RoleMestreConselheiro, RoleEscrivao, RoleTesoureiro},
	},
	ResourceTemplates: {ActionRead: Any},
}

// Allows reports whether role may perform act on res. Admin is always
// allowed.
func (p Policy) Allows(role Role, res Resource, act Action) bool {
	if role == RoleAdmin {
		return true
	}
	actions, ok := p[res]
	if !ok {
		return false
	}
	roles, ok := actions[act]
	if !ok {
		return false
	}
	return roles == nil || slices.Contains(roles, role)
}

// Authorize checks an identity against the policy.
func (p Policy) Authorize(id *Identity, res Resource, act Action) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if !p.Allows(id.Role, res, act) {
		return forbidden(id, string(res), string(act))
	}
	return nil
}

// AuthorizeRoles checks an identity against an explicit allow-list, such as
// the one a template carries. Admin is always allowed; an empty list allows
// any authenticated identity.
func AuthorizeRoles(id *Identity, allowed []string) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if id.Role == RoleAdmin || len(allowed) == 0 || slices.Contains(allowed, string(id.Role)) {
		return nil
	}
	return forbidden(id, "template", "use")
}
