package gate

import "strings"

type RouteClass int

const (
	Public RouteClass = iota
	AuthOnly
	Protected
	Admin
	Onboarding
)

func (rc RouteClass) String() string {
	switch rc {
	case Public:
		return "public"
	case AuthOnly:
		return "auth_only"
	case Admin:
		return "admin"
	case Onboarding:
		return "onboarding"
	default:
		return "protected"
	}
}

// Routes 前缀分类表，通常由 config.Gate 填充
type Routes struct {
	AdminPrefixes  []string
	AuthPrefixes   []string
	PublicPrefixes []string
	OnboardingPath string
	HomePath       string
}

type Classifier struct{ r Routes }

func NewClassifier(r Routes) *Classifier { return &Classifier{r: r} }

// Classify 按固定优先级匹配：Admin > Onboarding(精确) > AuthOnly > Public。
// 未命中一律 Protected —— 未知路径必须要求登录，而不是悄悄放行。
func (c *Classifier) Classify(path string) RouteClass {
	if path == "" {
		path = "/"
	}
	switch {
	case matchAny(path, c.r.AdminPrefixes):
		return Admin
	case path == c.r.OnboardingPath:
		return Onboarding
	case matchAny(path, c.r.AuthPrefixes):
		return AuthOnly
	case path == c.r.HomePath || c.r.HomePath == "" && path == "/":
		return Public
	case matchAny(path, c.r.PublicPrefixes):
		return Public
	default:
		return Protected
	}
}

// matchAny 前缀须整段命中："/admin" 匹配 /admin 和 /admin/x，不匹配 /administrator
func matchAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p == "" || p == "/" {
			continue
		}
		p = strings.TrimSuffix(p, "/")
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
