package authz

import "educrm/internal/domain"

// Viewer is the computed identity an authorization decision runs against.
// Built fresh from the request context on every call; never cached, since
// assignment state can change between calls within one session.
type Viewer struct {
	ID    int64
	Role  domain.UserRole
	OrgID int64
}

// Access is the result of resolving a (viewer, entity) pair.
type Access struct {
	IsOwner        bool
	IsOrgAuthority bool
}

// orgAuthority reports org-wide authority over entityOrgID.
func orgAuthority(v Viewer, entityOrgID int64) bool {
	if v.Role == domain.RoleSuperAdmin {
		return true
	}
	return v.Role == domain.RoleOrgAdmin && v.OrgID == entityOrgID
}

// ResolveLead computes access for a lead. Lead ownership is single-tier:
// the viewer owns the lead iff they are its assigned staff.
func ResolveLead(v Viewer, lead *domain.Lead) Access {
	a := Access{IsOrgAuthority: orgAuthority(v, lead.OrgID)}
	if v.Role == domain.RoleSuperAdmin {
		a.IsOwner = true
		return a
	}
	if lead.AssignedStaffID != nil && *lead.AssignedStaffID == v.ID {
		a.IsOwner = true
	}
	return a
}

// ResolveRegistration computes access for a service registration. The
// viewer owns it iff they are the active staff, or — for rows created
// before active tracking existed — active is unset and they are the
// primary. That fallback lives only here.
func ResolveRegistration(v Viewer, reg *domain.ServiceRegistration) Access {
	a := Access{IsOrgAuthority: orgAuthority(v, reg.OrgID)}
	if v.Role == domain.RoleSuperAdmin {
		a.IsOwner = true
		return a
	}
	switch {
	case reg.ActiveStaffID != nil:
		a.IsOwner = *reg.ActiveStaffID == v.ID
	case reg.PrimaryStaffID != nil:
		a.IsOwner = *reg.PrimaryStaffID == v.ID
	}
	return a
}

// ResolveOrg computes org-level access only (used by the organization
// document catalog, which has no individual owner).
func ResolveOrg(v Viewer, orgID int64) Access {
	return Access{IsOrgAuthority: orgAuthority(v, orgID)}
}
