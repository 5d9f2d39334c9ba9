package infra

import (
	"os"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// DefaultModel is a flat role model: a subject is a role name, not a user.
const DefaultModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// NewEnforcer loads the model at modelPath, or DefaultModel when the path is
// empty or missing.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	if modelPath != "" {
		if _, err := os.Stat(modelPath); err == nil {
			return casbin.NewEnforcer(modelPath)
		}
	}
	m, err := model.NewModelFromString(DefaultModel)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m)
}
