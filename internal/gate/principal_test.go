package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomatch/internal/core/auth"
	"roomatch/internal/domain"
)

type flagsFake struct {
	flags map[string]*domain.AuthFlags
	err   error
}

func (f *flagsFake) FindUserAuthFlags(_ context.Context, id string) (*domain.AuthFlags, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.flags[id], nil
}

func testJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "roomatch", TTL: time.Hour}
}

func TestResolveValidToken(t *testing.T) {
	j := testJWTer()
	r := &Resolver{JWT: j, Flags: &flagsFake{flags: map[string]*domain.AuthFlags{
		"u1": {IsAdmin: false, ProfileComplete: true},
	}}}
	token, err := j.Issue("u1", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	p := r.Resolve(context.Background(), token)
	if p.Anonymous() || p.UserID != "u1" || !p.ProfileComplete || p.IsAdmin {
		t.Fatalf("principal = %+v", p)
	}
}

// 标志以库里为准：token 里 role=user 的老会话，提权后立即生效。
func TestResolveRereadsFlagsFromStore(t *testing.T) {
	j := testJWTer()
	src := &flagsFake{flags: map[string]*domain.AuthFlags{
		"u1": {IsAdmin: false, ProfileComplete: false},
	}}
	r := &Resolver{JWT: j, Flags: src}
	token, _ := j.Issue("u1", "user")

	if p := r.Resolve(context.Background(), token); p.IsAdmin {
		t.Fatalf("not admin yet: %+v", p)
	}
	src.flags["u1"] = &domain.AuthFlags{IsAdmin: true, ProfileComplete: true}
	p := r.Resolve(context.Background(), token)
	if !p.IsAdmin || !p.ProfileComplete {
		t.Fatalf("flags must come from the store, got %+v", p)
	}
}

func TestResolveFailsClosedToAnonymous(t *testing.T) {
	j := testJWTer()
	goodToken, _ := j.Issue("u1", "user")

	expired := &auth.JWTer{Secret: j.Secret, Issuer: j.Issuer, TTL: -2 * time.Hour}
	expiredToken, _ := expired.Issue("u1", "user")

	otherKey := &auth.JWTer{Secret: []byte("other"), Issuer: j.Issuer, TTL: time.Hour}
	forgedToken, _ := otherKey.Issue("u1", "user")

	cases := []struct {
		name  string
		token string
		src   FlagSource
	}{
		{"empty token", "", &flagsFake{}},
		{"garbage token", "not.a.jwt", &flagsFake{}},
		{"expired token", expiredToken, &flagsFake{}},
		{"wrong signing key", forgedToken, &flagsFake{}},
		{"unknown user", goodToken, &flagsFake{flags: map[string]*domain.AuthFlags{}}},
		{"store unavailable", goodToken, &flagsFake{err: errors.New("conn refused")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Resolver{JWT: j, Flags: tc.src}
			if p := r.Resolve(context.Background(), tc.token); !p.Anonymous() {
				t.Fatalf("want anonymous, got %+v", p)
			}
		})
	}
}
