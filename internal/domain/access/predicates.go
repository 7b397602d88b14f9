// Package access holds the authorization rules of the API as pure
// functions of the request method, the resource owner and the caller.
package access

import (
	"net/http"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
)

// Method is an HTTP request method
type Method string

// IsSafe reports whether m only reads
func (m Method) IsSafe() bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// OwnerOrReadOnly allows every safe request and any write by the owner
func OwnerOrReadOnly(method Method, ownerIdentityID int64, caller Caller) bool {
	if method.IsSafe() {
		return true
	}
	return caller.IsAuthenticated() && caller.IdentityID == ownerIdentityID
}

// OwnerOrAdmin allows safe requests, owner writes and writes by staff accounts
func OwnerOrAdmin(method Method, ownerIdentityID int64, caller Caller) bool {
	if OwnerOrReadOnly(method, ownerIdentityID, caller) {
		return true
	}
	return caller.IsAuthenticated() && caller.IsStaff
}

// AdminOrReadOnly allows safe requests and writes by staff accounts
func AdminOrReadOnly(method Method, caller Caller) bool {
	if method.IsSafe() {
		return true
	}
	return AdminOnly(caller)
}

// AdminOnly allows staff accounts only
func AdminOnly(caller Caller) bool {
	return caller.IsAuthenticated() && caller.IsStaff
}

// HasRole reports whether the caller's profile carries role. A caller
// without a profile has no role.
func HasRole(caller Caller, role entities.Role) bool {
	if !caller.IsAuthenticated() || caller.Role == nil {
		return false
	}
	return *caller.Role == role
}

func IsDoctor(caller Caller) bool    { return HasRole(caller, entities.RoleDoctor) }
func IsPatient(caller Caller) bool   { return HasRole(caller, entities.RolePatient) }
func IsStaffRole(caller Caller) bool { return HasRole(caller, entities.RoleStaff) }
func IsAdminRole(caller Caller) bool { return HasRole(caller, entities.RoleAdmin) }

// IsPrivileged reports whether the caller may act on any record: staff
// accounts and holders of the staff or admin role.
func IsPrivileged(caller Caller) bool {
	return AdminOnly(caller) || IsStaffRole(caller) || IsAdminRole(caller)
}
