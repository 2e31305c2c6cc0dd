package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-mongo-users/internal/domain"
	"go-gin-mongo-users/internal/feature/user"
)

// MountAdminActions 管理端接口：admin 可见性列表、恢复、统计和存量修补。
func MountAdminActions(admin *gin.RouterGroup, svc *user.Service) {
	ez := New(admin)

	type adminListQ struct {
		Page           int64  `form:"page,default=1" binding:"min=1"`
		PageSize       int64  `form:"pageSize,default=20" binding:"min=1,max=100"`
		Sort           string `form:"sort,default=createdAt:-1"`
		IncludeDeleted bool   `form:"includeDeleted"`
		Name           string `form:"name"`
		Email          string `form:"email"`
	}

	// 管理端固定 admin 可见性：删除元数据和 emailLower 可见
	RegisterAction(ez, Action[adminListQ, *user.PagedResult]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *adminListQ) (*user.PagedResult, error) {
			return svc.List(c.Request.Context(), user.ListQuery{
				Page:           in.Page,
				PageSize:       in.PageSize,
				Sort:           in.Sort,
				Fields:         user.VisibilityAdmin,
				IncludeDeleted: in.IncludeDeleted,
				Predicates: user.Predicates{
					Email: in.Email,
					Name:  user.NamePredicate{Substring: in.Name},
				},
			})
		},
	})

	RegisterAction(ez, Action[struct{}, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/:id/restore",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return svc.Restore(c.Request.Context(), c.Param("id"))
		},
	})

	ez.GET("/stats", func(c *gin.Context) (any, error) {
		return svc.Stats(c.Request.Context())
	})

	// 存量记录补 emailLower（历史数据迁移用，可重复执行）
	RegisterAction(ez, Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/maintenance/backfill-email-lower",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			n, err := svc.BackfillEmailLower(c.Request.Context())
			if err != nil {
				return nil, err
			}
			return gin.H{"modified": n}, nil
		},
	})
}
