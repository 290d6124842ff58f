package gate

import (
	"net/url"
	"testing"
)

func testEngine() *Engine {
	return NewEngine(Targets{
		SignIn:     "/auth/sign-in",
		Onboarding: "/onboarding",
		Forbidden:  "/forbidden",
		Home:       "/",
		AdminHome:  "/admin",
	})
}

func anon() Principal { return Principal{} }
func member() Principal {
	return Principal{UserID: "u1", ProfileComplete: true}
}
func freshMember() Principal { return Principal{UserID: "u2"} }
func admin() Principal {
	return Principal{UserID: "a1", IsAdmin: true, ProfileComplete: true}
}

func TestDecideAnonymousOnProtectedRedirectsWithCallback(t *testing.T) {
	e := testEngine()
	out := e.Decide(anon(), Protected, "/messages/42", "tab=unread")
	if out.Kind != RedirectSignIn {
		t.Fatalf("kind = %v, want RedirectSignIn", out.Kind)
	}
	u, err := url.Parse(out.Target)
	if err != nil {
		t.Fatalf("target not a URL: %v", err)
	}
	if u.Path != "/auth/sign-in" {
		t.Errorf("target path = %q", u.Path)
	}
	if cb := u.Query().Get("callbackUrl"); cb != "/messages/42?tab=unread" {
		t.Errorf("callbackUrl = %q", cb)
	}
}

// 登录地址本身带 query 时 callbackUrl 追加而不是覆盖
func TestDecideSignInTargetKeepsExistingQuery(t *testing.T) {
	e := NewEngine(Targets{
		SignIn:     "/auth/sign-in?tab=login",
		Onboarding: "/onboarding",
		Forbidden:  "/forbidden",
		Home:       "/",
		AdminHome:  "/admin",
	})
	out := e.Decide(anon(), Protected, "/dashboard", "")
	u, err := url.Parse(out.Target)
	if err != nil {
		t.Fatalf("target not a URL: %v", err)
	}
	if u.Path != "/auth/sign-in" {
		t.Errorf("target path = %q", u.Path)
	}
	q := u.Query()
	if q.Get("tab") != "login" {
		t.Errorf("existing query lost: %q", out.Target)
	}
	if q.Get("callbackUrl") != "/dashboard" {
		t.Errorf("callbackUrl = %q", q.Get("callbackUrl"))
	}
}

func TestDecideAnonymousOnAdminRedirectsToSignIn(t *testing.T) {
	e := testEngine()
	out := e.Decide(anon(), Admin, "/admin/users", "")
	if out.Kind != RedirectSignIn {
		t.Fatalf("kind = %v, want RedirectSignIn", out.Kind)
	}
}

func TestDecideAnonymousAllowedElsewhere(t *testing.T) {
	e := testEngine()
	for _, class := range []RouteClass{Public, AuthOnly, Onboarding} {
		if out := e.Decide(anon(), class, "/x", ""); out.Kind != Allow {
			t.Errorf("anon on %v: kind = %v, want Allow", class, out.Kind)
		}
	}
}

func TestDecideSignedInOnAuthPages(t *testing.T) {
	e := testEngine()

	out := e.Decide(member(), AuthOnly, "/auth/sign-in", "")
	if out.Kind != RedirectHome || out.Target != "/" {
		t.Fatalf("member: %+v", out)
	}

	out = e.Decide(admin(), AuthOnly, "/auth/sign-in", "")
	if out.Kind != RedirectAdmin || out.Target != "/admin" {
		t.Fatalf("admin: %+v", out)
	}

	// 带 callbackUrl 时回到原地
	out = e.Decide(member(), AuthOnly, "/auth/sign-in", "callbackUrl=%2Foffers%2F9")
	if out.Kind != RedirectHome || out.Target != "/offers/9" {
		t.Fatalf("member with callback: %+v", out)
	}

	// 站外 callback 一律丢弃
	out = e.Decide(member(), AuthOnly, "/auth/sign-in", "callbackUrl=https%3A%2F%2Fevil.example")
	if out.Target != "/" {
		t.Fatalf("external callback must fall back to home, got %+v", out)
	}
	out = e.Decide(member(), AuthOnly, "/auth/sign-in", "callbackUrl=%2F%2Fevil.example")
	if out.Target != "/" {
		t.Fatalf("scheme-relative callback must fall back to home, got %+v", out)
	}
}

func TestDecideIncompleteProfileFunnelsToOnboarding(t *testing.T) {
	e := testEngine()
	for _, class := range []RouteClass{Public, Protected, Admin} {
		out := e.Decide(freshMember(), class, "/anything", "")
		if out.Kind != RedirectOnboarding {
			t.Errorf("class %v: kind = %v, want RedirectOnboarding", class, out.Kind)
		}
	}
	// 资料不全的管理员同样先去完善资料，角色检查在其后
	incompleteAdmin := Principal{UserID: "a2", IsAdmin: true}
	if out := e.Decide(incompleteAdmin, Admin, "/admin", ""); out.Kind != RedirectOnboarding {
		t.Errorf("incomplete admin: kind = %v, want RedirectOnboarding", out.Kind)
	}
	// 本人已在 onboarding 页则放行
	if out := e.Decide(freshMember(), Onboarding, "/onboarding", ""); out.Kind != Allow {
		t.Errorf("incomplete on onboarding: kind = %v, want Allow", out.Kind)
	}
}

func TestDecideCompleteProfileLeavesOnboarding(t *testing.T) {
	e := testEngine()
	out := e.Decide(member(), Onboarding, "/onboarding", "")
	if out.Kind != RedirectHome || out.Target != "/" {
		t.Fatalf("%+v", out)
	}
}

func TestDecideNonAdminOnAdminForbidden(t *testing.T) {
	e := testEngine()
	out := e.Decide(member(), Admin, "/admin/users", "")
	if out.Kind != RedirectForbidden || out.Target != "/forbidden" {
		t.Fatalf("%+v", out)
	}
}

func TestDecideAdminAtRootGoesToAdminHome(t *testing.T) {
	e := testEngine()
	out := e.Decide(admin(), Public, "/", "")
	if out.Kind != RedirectAdmin || out.Target != "/admin" {
		t.Fatalf("%+v", out)
	}
	// 非根路径不动
	if out := e.Decide(admin(), Public, "/offers", ""); out.Kind != Allow {
		t.Fatalf("admin on /offers: %+v", out)
	}
}

func TestDecideDefaultAllow(t *testing.T) {
	e := testEngine()
	if out := e.Decide(member(), Protected, "/dashboard", ""); out.Kind != Allow {
		t.Fatalf("%+v", out)
	}
	if out := e.Decide(admin(), Admin, "/admin/users", ""); out.Kind != Allow {
		t.Fatalf("%+v", out)
	}
}

// Decide 必须对任意输入组合给出结果，不得 panic。
func TestDecideTotal(t *testing.T) {
	e := testEngine()
	principals := []Principal{anon(), member(), freshMember(), admin(), {UserID: "a2", IsAdmin: true}}
	classes := []RouteClass{Public, AuthOnly, Protected, Admin, Onboarding}
	for _, p := range principals {
		for _, c := range classes {
			for _, q := range []string{"", "a=1", "callbackUrl=/x", "%%%bad"} {
				_ = e.Decide(p, c, "/p", q)
			}
		}
	}
}
