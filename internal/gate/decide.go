package gate

import (
	"net/url"
	"strings"
)

type OutcomeKind int

const (
	Allow OutcomeKind = iota
	RedirectSignIn
	RedirectOnboarding
	RedirectForbidden
	RedirectHome
	RedirectAdmin
)

func (k OutcomeKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case RedirectSignIn:
		return "sign_in"
	case RedirectOnboarding:
		return "onboarding"
	case RedirectForbidden:
		return "forbidden"
	case RedirectHome:
		return "home"
	case RedirectAdmin:
		return "admin"
	}
	return "allow"
}

// Outcome 裁决结果；Kind != Allow 时 Target 是 302 目标
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Target string      `json:"target,omitempty"`
}

// Targets 各类重定向的落点
type Targets struct {
	SignIn     string
	Onboarding string
	Forbidden  string
	Home       string
	AdminHome  string
}

type Engine struct{ t Targets }

func NewEngine(t Targets) *Engine {
	if t.Home == "" {
		t.Home = "/"
	}
	return &Engine{t: t}
}

// Decide 规则自上而下求值，首条命中即返回。顺序就是语义的一部分：
// 资料未完善的拦截排在管理员角色检查之前（资料不全的管理员一样先去
// 完善资料），调换会改变可观察行为，不能动。
func (e *Engine) Decide(p Principal, class RouteClass, path, rawQuery string) Outcome {
	switch {
	case p.Anonymous() && (class == Protected || class == Admin):
		cb := path
		if rawQuery != "" {
			cb += "?" + rawQuery
		}
		return Outcome{Kind: RedirectSignIn, Target: withCallback(e.t.SignIn, cb)}

	case p.Anonymous():
		// Public / AuthOnly / Onboarding 对匿名一律放行
		return Outcome{Kind: Allow}

	case class == AuthOnly:
		// 已登录用户不该再看登录页；显式 callbackUrl 优先于默认落点
		if cb := callbackOf(rawQuery); cb != "" {
			if p.IsAdmin {
				return Outcome{Kind: RedirectAdmin, Target: cb}
			}
			return Outcome{Kind: RedirectHome, Target: cb}
		}
		if p.IsAdmin {
			return Outcome{Kind: RedirectAdmin, Target: e.t.AdminHome}
		}
		return Outcome{Kind: RedirectHome, Target: e.t.Home}

	case !p.ProfileComplete && class != Onboarding:
		return Outcome{Kind: RedirectOnboarding, Target: e.t.Onboarding}

	case p.ProfileComplete && class == Onboarding:
		return Outcome{Kind: RedirectHome, Target: e.t.Home}

	case class == Admin && !p.IsAdmin:
		return Outcome{Kind: RedirectForbidden, Target: e.t.Forbidden}

	case p.IsAdmin && path == e.t.Home && p.ProfileComplete:
		return Outcome{Kind: RedirectAdmin, Target: e.t.AdminHome}

	default:
		return Outcome{Kind: Allow}
	}
}

// withCallback 往登录地址追加 callbackUrl；登录地址自带 query 也不破坏
func withCallback(signIn, cb string) string {
	u, err := url.Parse(signIn)
	if err != nil {
		return signIn + "?callbackUrl=" + url.QueryEscape(cb)
	}
	q := u.Query()
	q.Set("callbackUrl", cb)
	u.RawQuery = q.Encode()
	return u.String()
}

// callbackOf 取 query 里的 callbackUrl，只接受站内相对路径
func callbackOf(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	vals, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	cb := vals.Get("callbackUrl")
	if !strings.HasPrefix(cb, "/") || strings.HasPrefix(cb, "//") {
		return ""
	}
	return cb
}
