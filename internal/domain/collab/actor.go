package collab

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleBrand   Role = "BRAND"
	RoleCreator Role = "CREATOR"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

func ParseRole(raw string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(raw))); r {
	case RoleBrand, RoleCreator, RoleManager, RoleAdmin:
		return r, true
	}
	return "", false
}

// Actor is the already-authenticated caller of a lifecycle operation.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

func (a Actor) Valid() bool {
	if a.ID == uuid.Nil {
		return false
	}
	_, ok := ParseRole(string(a.Role))
	return ok
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsBrandSide reports whether the actor may act for the campaign: its brand
// user, its assigned manager, or an admin.
func (a Actor) IsBrandSide(c *Campaign) bool {
	if a.IsAdmin() {
		return true
	}
	if c == nil || a.ID == uuid.Nil {
		return false
	}
	if a.ID == c.BrandUserID {
		return true
	}
	return c.ManagerUserID != nil && *c.ManagerUserID == a.ID
}

func (a Actor) IsCreatorSide(p *CreatorProfile) bool {
	if p == nil || a.ID == uuid.Nil {
		return false
	}
	return a.ID == p.UserID
}
