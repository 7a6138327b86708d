// AngelaMos | 2026
// roles.go

package auth

import (
	"strings"

	"github.com/carterperez-dev/trailrace/internal/middleware"
)

// AdminAllowList maps configured e-mail addresses to the admin role.
type AdminAllowList struct {
	emails map[string]struct{}
}

func NewAdminAllowList(emails []string) *AdminAllowList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			set[e] = struct{}{}
		}
	}
	return &AdminAllowList{emails: set}
}

func (a *AdminAllowList) Contains(email string) bool {
	if a == nil {
		return false
	}
	_, ok := a.emails[normalizeEmail(email)]
	return ok
}

func (a *AdminAllowList) RoleFor(email string) string {
	if a.Contains(email) {
		return middleware.RoleAdmin
	}
	return middleware.RoleUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
