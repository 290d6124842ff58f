package ez

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	resp "roomatch/internal/transport/http/response"
	"roomatch/pkg/utils"
)

// Owned 归属用户的模型；CRUD 所有查询都按 owner 过滤
type Owned interface {
	GetID() string
	SetID(id string)
	GetOwnerID() string
	SetOwnerID(id string)
}

type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	BeforeUpdate func(c *gin.Context, old, in *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB
}

// CrudConfig 挂"我的 XX"增删改查；Group 必须是已鉴权分组
type CrudConfig[T any, PT interface {
	*T
	Owned
}] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup
	Path  string

	Hooks CrudHooks[T]

	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowUpdate bool
	AllowDelete bool

	OrderBy string // 默认 created_at DESC
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func Crud[T any, PT interface {
	*T
	Owned
}](cfg CrudConfig[T, PT]) {
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowUpdate && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowUpdate, cfg.AllowDelete = true, true, true, true, true
	}
	if cfg.OrderBy == "" {
		cfg.OrderBy = "created_at DESC"
	}

	ownerScoped := func(c *gin.Context, id string) *gorm.DB {
		return cfg.DB.WithContext(c).
			Where("id = ? AND owner_id = ?", id, c.GetString("userId"))
	}

	if cfg.AllowCreate {
		cfg.Group.POST(cfg.Path, func(c *gin.Context) {
			var m T
			pm := PT(&m)
			if err := c.ShouldBindJSON(pm); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			if strings.TrimSpace(pm.GetID()) == "" {
				pm.SetID(utils.NewID())
			}
			pm.SetOwnerID(c.GetString("userId"))

			if cfg.Hooks.BeforeCreate != nil {
				if err := cfg.Hooks.BeforeCreate(c, &m); err != nil {
					c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
					return
				}
			}
			if err := cfg.DB.WithContext(c).Create(pm).Error; err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, resp.OK(pm))
		})
	}

	if cfg.AllowList {
		cfg.Group.GET(cfg.Path, func(c *gin.Context) {
			page := atoiDefault(c.Query("page"), 1)
			size := atoiDefault(c.Query("size"), 20)
			if size > 100 {
				size = 20
			}

			q := cfg.DB.WithContext(c).Model(new(T)).
				Where("owner_id = ?", c.GetString("userId"))
			if cfg.Hooks.ScopeList != nil {
				q = cfg.Hooks.ScopeList(c, q)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
				return
			}
			var items []T
			if err := q.Order(cfg.OrderBy).Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
				return
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{
				"list": items, "total": total, "page": page, "size": size,
			}))
		})
	}

	if cfg.AllowGet {
		cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
			var m T
			if err := ownerScoped(c, c.Param("id")).First(&m).Error; err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
				return
			}
			c.JSON(http.StatusOK, resp.OK(&m))
		})
	}

	if cfg.AllowUpdate {
		cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
			id := c.Param("id")

			var old T
			if err := ownerScoped(c, id).First(&old).Error; err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
				return
			}

			var in T
			pin := PT(&in)
			if err := c.ShouldBindJSON(pin); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			// ID/Owner 不许改
			pin.SetID(id)
			pin.SetOwnerID(c.GetString("userId"))

			if cfg.Hooks.BeforeUpdate != nil {
				if err := cfg.Hooks.BeforeUpdate(c, &old, &in); err != nil {
					c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
					return
				}
			}
			if err := ownerScoped(c, id).Model(new(T)).Updates(pin).Error; err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
		})
	}

	if cfg.AllowDelete {
		cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
			id := c.Param("id")
			res := ownerScoped(c, id).Delete(new(T))
			if res.Error != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, res.Error.Error()))
				return
			}
			if res.RowsAffected == 0 {
				c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
				return
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
		})
	}
}
