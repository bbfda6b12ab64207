// Package policy holds the declarative access rules for console and public
// callers.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/kingrain94/remote-config-api/internal/domain"
)

type Mode string

const (
	ModeEnforce  Mode = "enforce"
	ModeShadow   Mode = "shadow"
	ModeDisabled Mode = "disabled"
)

// Objects and actions the rules are written against.
const (
	ObjectTenants          = "tenants"
	ObjectAppConfigs       = "app_configs"
	ObjectPublishedConfigs = "app_configs:published"
	ObjectStats            = "stats"
	ObjectEvents           = "events"

	ActionRead  = "read"
	ActionWrite = "write"
	ActionAny   = "*"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

// defaultRules grants operators everything and anonymous key holders only
// published reads. Unpublished rows are never readable without a session.
var defaultRules = [][]string{
	{Subject(domain.RoleOperator), ObjectTenants, ActionAny},
	{Subject(domain.RoleOperator), ObjectAppConfigs, ActionAny},
	{Subject(domain.RoleOperator), ObjectPublishedConfigs, ActionRead},
	{Subject(domain.RoleOperator), ObjectStats, ActionRead},
	{Subject(domain.RoleOperator), ObjectEvents, ActionRead},
	{Subject(domain.RoleAnon), ObjectPublishedConfigs, ActionRead},
}

func ParseMode(raw string) (Mode, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ModeEnforce, nil
	}
	switch Mode(raw) {
	case ModeEnforce, ModeShadow, ModeDisabled:
		return Mode(raw), nil
	default:
		return "", errors.New("policy: invalid mode (expected enforce|shadow|disabled)")
	}
}

func Subject(role domain.Role) string {
	r := strings.TrimSpace(strings.ToLower(string(role)))
	if r == "" {
		r = string(domain.RoleAnon)
	}
	return "role:" + r
}

type Authorizer struct {
	enforcer *casbin.Enforcer
	mode     Mode
}

func NewAuthorizer(mode Mode) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("policy: load model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("policy: create enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(defaultRules); err != nil {
		return nil, fmt.Errorf("policy: add rules: %w", err)
	}

	return &Authorizer{enforcer: enforcer, mode: mode}, nil
}

func (a *Authorizer) Mode() Mode {
	return a.mode
}

// Authorize evaluates the rule set. In shadow mode the decision is computed
// but enforced is false, so callers log denials and let the request through.
func (a *Authorizer) Authorize(role domain.Role, object, action string) (allowed bool, enforced bool, err error) {
	switch a.mode {
	case ModeDisabled:
		return true, false, nil
	case ModeShadow:
		ok, err := a.enforcer.Enforce(Subject(role), object, action)
		if err != nil {
			return false, false, err
		}
		return ok, false, nil
	case ModeEnforce:
		ok, err := a.enforcer.Enforce(Subject(role), object, action)
		if err != nil {
			return false, true, err
		}
		return ok, true, nil
	default:
		return false, false, errors.New("policy: unknown mode")
	}
}
