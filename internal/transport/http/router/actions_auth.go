package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roomatch/internal/core/auth"
	"roomatch/internal/domain"
	httpez "roomatch/internal/transport/http/ez"
	mdw "roomatch/internal/transport/http/middleware"
	"roomatch/pkg/utils"
)

func mountAuthActions(api, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authed)

	type credOut struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}

	setSession := func(c *gin.Context, token string) {
		c.SetCookie(auth.SessionCookie, token, int(d.JWT.TTL.Seconds()), "/", "", false, true)
	}

	// --- POST /auth/sign-up ---
	type signUpIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name"     binding:"omitempty,max=64"`
	}
	httpez.RegisterAction[signUpIn, credOut](ezPublic, d.DB, httpez.Action[signUpIn, credOut]{
		Method: http.MethodPost,
		Path:   "/auth/sign-up",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *signUpIn) (credOut, error) {
			email := strings.ToLower(strings.TrimSpace(in.Email))
			name := strings.TrimSpace(in.Name)
			if name == "" {
				if at := strings.IndexByte(email, '@'); at > 0 {
					name = email[:at]
				}
			}
			u := &domain.User{
				ID:           utils.NewID(),
				Email:        email,
				Name:         name,
				PasswordHash: utils.HashPassword(in.Password),
			}
			if err := d.Store.CreateUser(c.Request.Context(), u); err != nil {
				return credOut{}, err // 唯一键冲突会映射成 409
			}
			tok, err := d.JWT.Issue(u.ID, "user")
			if err != nil {
				return credOut{}, httpez.Internal("issue token failed", err)
			}
			setSession(c, tok)
			return credOut{Token: tok, User: u}, nil
		},
	})

	// --- POST /auth/sign-in ---
	type signInIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[signInIn, credOut](ezPublic, d.DB, httpez.Action[signInIn, credOut]{
		Method: http.MethodPost,
		Path:   "/auth/sign-in",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *signInIn) (credOut, error) {
			email := strings.ToLower(strings.TrimSpace(in.Email))
			u, err := d.Store.FindUserByEmail(c.Request.Context(), email)
			if err != nil {
				return credOut{}, err
			}
			if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
				return credOut{}, httpez.Unauthorized("invalid credentials")
			}
			role := "user"
			if u.IsAdmin {
				role = "admin"
			}
			tok, err := d.JWT.Issue(u.ID, role)
			if err != nil {
				return credOut{}, httpez.Internal("issue token failed", err)
			}
			setSession(c, tok)
			return credOut{Token: tok, User: u}, nil
		},
	})

	// --- POST /auth/sign-out ---
	api.POST("/auth/sign-out", func(c *gin.Context) {
		c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "OK", "data": gin.H{}})
	})

	// --- GET /me ---
	httpez.RegisterAction[struct{}, *domain.User](ezAuth, d.DB, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.User, error) {
			u, err := d.Store.FindUserByID(c.Request.Context(), c.GetString(mdw.KeyUserID))
			if err != nil {
				return nil, err
			}
			if u == nil {
				return nil, httpez.NotFound("user not found")
			}
			return u, nil
		},
	})

	// --- POST /onboarding 完善资料，profileComplete 只进不退 ---
	type onboardingIn struct {
		Name  string `json:"name"  binding:"required,max=64"`
		Phone string `json:"phone" binding:"required,max=32"`
		Bio   string `json:"bio"   binding:"omitempty,max=512"`
	}
	httpez.RegisterAction[onboardingIn, *domain.User](ezAuth, d.DB, httpez.Action[onboardingIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/onboarding",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *onboardingIn) (*domain.User, error) {
			ctx := c.Request.Context()
			u, err := d.Store.FindUserByID(ctx, c.GetString(mdw.KeyUserID))
			if err != nil {
				return nil, err
			}
			if u == nil {
				return nil, httpez.NotFound("user not found")
			}
			u.Name = strings.TrimSpace(in.Name)
			u.Phone = strings.TrimSpace(in.Phone)
			u.Bio = strings.TrimSpace(in.Bio)
			u.ProfileComplete = true
			if err := d.Store.UpdateUser(ctx, u); err != nil {
				return nil, err
			}
			return u, nil
		},
	})
}
