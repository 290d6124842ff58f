// Package gate 集中放导航门禁的三件套：会话解析、路由分类、放行裁决。
// 三者都是全函数，任何输入都有唯一结果，绝不 panic、不返回错误。
package gate

import (
	"context"

	"roomatch/internal/core/auth"
	"roomatch/internal/domain"
)

// Principal 当前请求解析出的身份。零值即匿名。
type Principal struct {
	UserID          string
	IsAdmin         bool
	ProfileComplete bool
}

func (p Principal) Anonymous() bool { return p.UserID == "" }

// FlagSource 权威标志的来源（domain.Store 的子集，方便测试替身）
type FlagSource interface {
	FindUserAuthFlags(ctx context.Context, id string) (*domain.AuthFlags, error)
}

type Resolver struct {
	JWT   *auth.JWTer
	Flags FlagSource
}

// Resolve token → Principal。token 非法/过期、用户不存在、存储不可达
// 都按匿名处理（fail closed），让裁决函数始终拿到一个确定的输入。
// isAdmin/profileComplete 每次都从库里重读，token 里的 role 只是快照。
func (r *Resolver) Resolve(ctx context.Context, token string) Principal {
	if token == "" {
		return Principal{}
	}
	claims, err := r.JWT.Parse(token)
	if err != nil || claims.UID == "" {
		return Principal{}
	}
	flags, err := r.Flags.FindUserAuthFlags(ctx, claims.UID)
	if err != nil || flags == nil {
		return Principal{}
	}
	return Principal{
		UserID:          claims.UID,
		IsAdmin:         flags.IsAdmin,
		ProfileComplete: flags.ProfileComplete,
	}
}
