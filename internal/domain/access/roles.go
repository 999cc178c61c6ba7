// Package access answers the role questions DOTS screens ask before showing workflow
// actions: who administers DOTS, who may approve a transaction at its current status and
// which dashboard groups a user belongs to.
//
// All functions are pure. Inputs are snapshots supplied by the caller and are never mutated.
package access

import (
	"strings"
	"time"

	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/form"
)

// Presence is a three-valued lookup result that keeps "no data" apart from "no match"
type Presence int

const (
	PresenceUnknown Presence = iota
	PresencePresent
	PresenceAbsent
)

// String returns the presence name
func (p Presence) String() string {
	switch p {
	case PresencePresent:
		return "present"
	case PresenceAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// RolesByApplicationName returns the roles of the first application named name.
// ok is false when the user has no such application.
func RolesByApplicationName(applications []entity.Application, name string) (roles []entity.Role, ok bool) {
	for _, app := range applications {
		if app.AppName == name {
			return app.Role, true
		}
	}
	return nil, false
}

// DotsRoles returns the user's roles in the DOTS application
func DotsRoles(user *entity.User) ([]entity.Role, bool) {
	if user == nil {
		return nil, false
	}
	return RolesByApplicationName(user.Applications, entity.ApplicationDOTS)
}

// HasDotsAdminRole reports whether the user holds A0001 in the DOTS application
func HasDotsAdminRole(user *entity.User) bool {
	roles, ok := DotsRoles(user)
	return HasUserTypeA0001(roles, ok) == PresencePresent
}

// HasUserTypeA0001 reports whether an admin role is among roles. known must be false when the
// role list could not be resolved, in which case the answer is PresenceUnknown.
func HasUserTypeA0001(roles []entity.Role, known bool) Presence {
	if !known {
		return PresenceUnknown
	}
	for _, role := range roles {
		if role.UserType == entity.UserTypeAdmin {
			return PresencePresent
		}
	}
	return PresenceAbsent
}

// IsActive reports whether a master-data record is still valid at now. A nil expiry never
// expires; an expiry that cannot be parsed counts as expired.
func IsActive(expiredDate *string, now time.Time) bool {
	if expiredDate == nil {
		return true
	}
	expiry, err := form.ParseDate(*expiredDate)
	if err != nil {
		return false
	}
	return expiry.After(now)
}

// SpecialRoleTypes returns which of the approver prefixes VD, VG and VA occur among the
// roles' user types, always in that order
func SpecialRoleTypes(roles []entity.Role) []string {
	prefixes := []string{
		entity.RolePrefixDepartmentHead,
		entity.RolePrefixGroupHead,
		entity.RolePrefixAccounting,
	}

	found := []string{}
	for _, prefix := range prefixes {
		for _, role := range roles {
			if strings.HasPrefix(role.UserType, prefix) {
				found = append(found, prefix)
				break
			}
		}
	}
	return found
}

var statusGroups = map[string]string{
	entity.RolePrefixDepartmentHead: entity.StatusGroupVerifiedDH,
	entity.RolePrefixGroupHead:      entity.StatusGroupVerifiedGH,
	entity.RolePrefixAccounting:     entity.StatusGroupVerifiedAccounting,
}

// StatusGroupFromRoles maps role prefixes to dashboard status groups, dropping unknown prefixes
func StatusGroupFromRoles(prefixes []string) []string {
	groups := []string{}
	for _, prefix := range prefixes {
		if group, ok := statusGroups[prefix]; ok {
			groups = append(groups, group)
		}
	}
	return groups
}

// CheckIS001WithNullCostCenter reports whether the user holds IS001 without a cost center in
// DOTS. A non-empty costCenterFilter first narrows the roles to those whose em_cost_center
// equals it.
func CheckIS001WithNullCostCenter(user *entity.User, costCenterFilter string) bool {
	roles, ok := DotsRoles(user)
	if !ok {
		return false
	}

	for _, role := range roles {
		if costCenterFilter != "" && (role.EmCostCenter == nil || *role.EmCostCenter != costCenterFilter) {
			continue
		}
		if role.UserType == entity.UserTypeSpecialInputter && role.CostCenter == nil {
			return true
		}
	}
	return false
}
