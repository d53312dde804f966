// Package policy holds the access-control rules shared by every handler:
// elevated-access checks, per-entity visibility gates and the anniversary
// day arithmetic. Everything in here is a pure function of its inputs.
package policy

import (
	"github.com/ourmemories/memoriesbackend/models"
)

// Identity is the authenticated caller as encoded in the JWT. A nil
// *Identity means the request is anonymous.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// Policy evaluates access decisions. The privileged set is loaded once from
// configuration at process start; membership is checked against normalized
// (lowercased) emails.
type Policy struct {
	privilegedEmails map[string]struct{}
}

// New builds a Policy from the configured privileged email allowlist.
func New(privilegedEmails []string) *Policy {
	set := make(map[string]struct{}, len(privilegedEmails))
	for _, email := range privilegedEmails {
		set[models.NormalizeEmail(email)] = struct{}{}
	}
	return &Policy{privilegedEmails: set}
}

// HasElevatedAccess reports whether the caller may write content and see
// private entities: admins always, plus the allowlisted accounts regardless
// of their stored role. Anonymous callers never qualify.
func (p *Policy) HasElevatedAccess(id *Identity) bool {
	if id == nil {
		return false
	}
	if id.Role == models.RoleAdmin {
		return true
	}
	_, ok := p.privilegedEmails[models.NormalizeEmail(id.Email)]
	return ok
}
