package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"developer-directory/internal/domain"
	"developer-directory/internal/service"
	"developer-directory/internal/transport/http/ez"
	mdw "developer-directory/internal/transport/http/middleware"
)

type authOut struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

type meOut struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
}

// authModule /auth/signup、/auth/login、/auth/me
type authModule struct {
	svc *service.AuthService
	// 每个挂载点各自一组 IP 令牌桶
	rps   rate.Limit
	burst int
}

func (m *authModule) Priority() int { return 10 }

func (m *authModule) Mount(e ez.EZ) {
	g := e.Group("/auth", mdw.RateLimitPerIP(m.rps, m.burst))

	ez.RegisterAction(g, ez.Action[domain.SignupInput, authOut]{
		Method: http.MethodPost,
		Path:   "/signup",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.SignupInput) (authOut, error) {
			res, err := m.svc.Signup(c.Request.Context(), *in)
			if err != nil {
				return authOut{}, err
			}
			return authOut{Success: true, Message: "User registered successfully", Token: res.Token, User: res.User}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[domain.LoginInput, authOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.LoginInput) (authOut, error) {
			res, err := m.svc.Login(c.Request.Context(), *in)
			if err != nil {
				return authOut{}, err
			}
			return authOut{Success: true, Message: "Login successful", Token: res.Token, User: res.User}, nil
		},
	})

	// /me 只在自己的分组上挂鉴权
	me := g.Group("", mdw.AuthJWT(m.svc))
	ez.RegisterAction(me, ez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (meOut, error) {
			u, err := m.svc.CurrentUser(c.Request.Context(), c.GetString(ez.KeyToken))
			if err != nil {
				return meOut{}, err
			}
			return meOut{Success: true, User: *u}, nil
		},
	})
}
