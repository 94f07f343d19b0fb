package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"developer-directory/internal/domain"
	"developer-directory/internal/service"
	"developer-directory/internal/transport/http/ez"
	mdw "developer-directory/internal/transport/http/middleware"
	resp "developer-directory/internal/transport/http/response"
)

type listOut struct {
	Success    bool               `json:"success"`
	Count      int                `json:"count"`
	Data       []domain.Developer `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
}

type getOut struct {
	Success bool              `json:"success"`
	Data    *domain.Developer `json:"data"`
}

// developersModule /developers 增删改查；protect=false 时公开访问
type developersModule struct {
	svc     *service.DeveloperService
	auth    mdw.TokenVerifier
	protect bool
}

func (m *developersModule) Mount(e ez.EZ) {
	var mw []gin.HandlerFunc
	if m.protect {
		mw = append(mw, mdw.AuthJWT(m.auth))
	}
	g := e.Group("/developers", mw...)

	ez.RegisterAction(g, ez.Action[domain.ListQuery, listOut]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Auth:   m.protect,
		Handler: func(c *gin.Context, q *domain.ListQuery) (listOut, error) {
			p, err := m.svc.List(c.Request.Context(), *q)
			if err != nil {
				return listOut{}, err
			}
			data := p.Data
			if data == nil {
				data = []domain.Developer{}
			}
			return listOut{
				Success:    true,
				Count:      len(data),
				Data:       data,
				Total:      p.Total,
				Page:       p.Page,
				TotalPages: p.TotalPages,
			}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, getOut]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   m.protect,
		Handler: func(c *gin.Context, _ *struct{}) (getOut, error) {
			d, err := m.svc.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return getOut{}, err
			}
			return getOut{Success: true, Data: d}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[domain.DeveloperInput, *domain.Developer]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Auth:   m.protect,
		Handler: func(c *gin.Context, in *domain.DeveloperInput) (*domain.Developer, error) {
			return m.svc.Create(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(g, ez.Action[domain.DeveloperInput, *domain.Developer]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   m.protect,
		Handler: func(c *gin.Context, in *domain.DeveloperInput) (*domain.Developer, error) {
			return m.svc.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, resp.Body]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   m.protect,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Body, error) {
			if err := m.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Body{}, err
			}
			return resp.OK("Developer deleted"), nil
		},
	})
}
