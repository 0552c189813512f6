package model

import "strings"

// roleRules map raw-title keywords to a normalized category. Order matters:
// the first matching rule wins, so founder titles are checked before the
// generic executive keywords they often contain.
var roleRules = []struct {
	keywords []string
	category RoleCategory
}{
	{[]string{"founder", "co-founder", "cofounder"}, RoleFounder},
	{[]string{"ceo", "cto", "cfo", "coo", "president", "vice president", "chief", "executive"}, RoleExecutive},
	{[]string{"director"}, RoleDirector},
	{[]string{"manager", "lead", "head"}, RoleManager},
}

// NormalizeRole maps a free-text job title onto the closed role set. Titles
// with no recognizable keyword fall through to Employee.
func NormalizeRole(role string) RoleCategory {
	lower := strings.ToLower(role)
	for _, rule := range roleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return RoleEmployee
}
