package models

import "frontoffice/constants"

// Actor is the identity context supplied by the RBAC provider on every call.
type Actor struct {
	BusinessID uint   `json:"businessId"`
	BranchID   uint   `json:"branchId"`
	ActorID    uint   `json:"actorId"`
	Role       string `json:"role"`
}

func (a Actor) IsManager() bool {
	return a.Role == constants.RoleOwner || a.Role == constants.RoleManager
}
