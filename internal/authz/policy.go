// Package authz decides whether a caller may perform an operation. It is a
// static table keyed by operation and has no dependency on the HTTP layer.
package authz

import "strings"

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

type Operation string

const (
	OpListCities     Operation = "cities.list"
	OpGetCity        Operation = "cities.get"
	OpCreateCity     Operation = "cities.create"
	OpUpdateCity     Operation = "cities.update"
	OpListEvents     Operation = "events.list"
	OpGetEvent       Operation = "events.get"
	OpCreateEvent    Operation = "events.create"
	OpUpdateEvent    Operation = "events.update"
	OpExportCalendar Operation = "events.calendar"
)

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Principal is the authenticated caller as decoded from a bearer token.
type Principal struct {
	Subject string
	Roles   []Role
}

func (p *Principal) HasAnyRole(allowed ...Role) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}

type rule struct {
	public  bool
	allowed []Role
}

var policy = map[Operation]rule{
	OpListCities:     {public: true},
	OpGetCity:        {public: true},
	OpListEvents:     {public: true},
	OpGetEvent:       {public: true},
	OpExportCalendar: {public: true},
	OpCreateCity:     {allowed: []Role{RoleAdmin}},
	OpUpdateCity:     {allowed: []Role{RoleAdmin}},
	OpCreateEvent:    {allowed: []Role{RoleClient, RoleAdmin}},
	OpUpdateEvent:    {allowed: []Role{RoleClient, RoleAdmin}},
}

// Decide evaluates the policy table. A nil principal means no valid credential
// was presented. Operations missing from the table are denied.
func Decide(op Operation, p *Principal) Decision {
	r, ok := policy[op]
	if ok && r.public {
		return Allow
	}
	if p == nil {
		return DenyUnauthenticated
	}
	if !ok || !p.HasAnyRole(r.allowed...) {
		return DenyForbidden
	}
	return Allow
}

// IsPublic reports whether op can be called without credentials.
func IsPublic(op Operation) bool {
	return policy[op].public
}

// NormalizeRole maps token role strings such as "ROLE_ADMIN" or "admin" onto
// a Role. Unknown roles are returned upper-cased and never match the table.
func NormalizeRole(raw string) Role {
	r := strings.ToUpper(strings.TrimSpace(raw))
	r = strings.TrimPrefix(r, "ROLE_")
	return Role(r)
}

func NormalizeRoles(raw []string) []Role {
	out := make([]Role, 0, len(raw))
	for _, r := range raw {
		if n := NormalizeRole(r); n != "" {
			out = append(out, n)
		}
	}
	return out
}
