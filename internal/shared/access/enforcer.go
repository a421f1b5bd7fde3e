package access

import (
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

const roleModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// NewEnforcer builds the in-memory role enforcer. ADMIN satisfies both
// requirements, USER only the user requirement.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies([][]string{
		{RoleAdmin.String(), RequireAdmin.String()},
		{RoleAdmin.String(), RequireUser.String()},
		{RoleUser.String(), RequireUser.String()},
	}); err != nil {
		return nil, err
	}

	return e, nil
}
