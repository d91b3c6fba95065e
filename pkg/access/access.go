package access

import (
	"worker-finder/pkg/config"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("access", fx.Provide(NewEnforcer))

const (
	RoleWorker = "worker"
	RoleSeeker = "seeker"
)

const defaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && r.act == p.act
`

// DefaultPolicy holds the role restricted routes. Routes open to any
// authenticated user are not listed and are not passed through the enforcer.
const DefaultPolicy = `
p, seeker, /api/jobs, POST
p, seeker, /api/jobs/:jobId/applications, GET
p, seeker, /api/jobs/applications/:applicationId/accept, PUT
p, worker, /api/jobs/:jobId/apply, POST
`

// NewEnforcer loads the model and policy files named in the config, falling
// back to the built in ones.
func NewEnforcer(cfg *config.Config) (*casbin.Enforcer, error) {
	if cfg.AccessControl.Model != "" && cfg.AccessControl.Policy != "" {
		zap.L().Info("loading access control from files",
			zap.String("model", cfg.AccessControl.Model),
			zap.String("policy", cfg.AccessControl.Policy),
		)
		return casbin.NewEnforcer(cfg.AccessControl.Model, cfg.AccessControl.Policy)
	}

	return NewDefaultEnforcer()
}

func NewDefaultEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(defaultModel)
	if err != nil {
		return nil, err
	}

	return casbin.NewEnforcer(m, stringadapter.NewAdapter(DefaultPolicy))
}

// DenyMessage names the account type a route requires.
func DenyMessage(e *casbin.Enforcer, obj, act string) string {
	rules, err := e.GetFilteredPolicy(1, obj, act)
	if err != nil || len(rules) != 1 {
		return "Access denied"
	}

	switch rules[0][0] {
	case RoleWorker:
		return "Access denied. Worker account required."
	case RoleSeeker:
		return "Access denied. Seeker account required."
	default:
		return "Access denied"
	}
}
