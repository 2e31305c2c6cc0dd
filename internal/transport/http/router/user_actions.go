package router

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-mongo-users/internal/domain"
	"go-gin-mongo-users/internal/feature/user"
)

// UserModule 通过注册器挂到 /api/v1 下。
type UserModule struct{ svc *user.Service }

func NewUserModule(svc *user.Service) *UserModule { return &UserModule{svc: svc} }

func (m *UserModule) MountAPI(api *gin.RouterGroup) {
	MountUserActions(api.Group("/users"), m.svc)
}

// listQ 列表查询参数。绑定只管形状（范围、枚举），语义编译在引擎里。
type listQ struct {
	Page           int64  `form:"page,default=1" binding:"min=1"`
	PageSize       int64  `form:"pageSize,default=10" binding:"min=1,max=100"`
	Sort           string `form:"sort,default=createdAt:-1"`
	Fields         string `form:"fields,default=basic" binding:"oneof=basic admin custom"`
	CustomFields   string `form:"customFields"`
	IncludeDeleted bool   `form:"includeDeleted"`

	Name      string `form:"name"`
	NameRegex string `form:"nameRegex"`
	Email     string `form:"email"`
	Age       *int   `form:"age"`
	AgeIn     string `form:"ageIn"`
	AgeNin    string `form:"ageNin"`
	Phone     string `form:"phone"`
	HasPhone  *bool  `form:"hasPhone"`
	Q         string `form:"q"`
}

func (q *listQ) toQuery() user.ListQuery {
	return user.ListQuery{
		Page:           q.Page,
		PageSize:       q.PageSize,
		Sort:           q.Sort,
		Fields:         user.Visibility(q.Fields),
		CustomFields:   q.CustomFields,
		IncludeDeleted: q.IncludeDeleted,
		Predicates: user.Predicates{
			Email: q.Email,
			Name:  user.NamePredicate{Regex: q.NameRegex, Substring: q.Name},
			Age:   user.AgePredicate{In: q.AgeIn, NotIn: q.AgeNin, Equals: q.Age},
			Phone: user.PhonePredicate{Has: q.HasPhone, Substring: q.Phone},
			Text:  q.Q,
		},
	}
}

type cursorQ struct {
	Limit int64  `form:"limit,default=20" binding:"min=1,max=100"`
	After string `form:"after"`
}

type bulkIn struct {
	Users []user.BulkUser `json:"users" binding:"required,min=1,max=100,dive"`
}

func MountUserActions(g *gin.RouterGroup, svc *user.Service) {
	ez := New(g)

	RegisterAction(ez, Action[user.CreateUser, *domain.User]{
		Method: http.MethodPost,
		Path:   "",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *user.CreateUser) (*domain.User, error) {
			return svc.Create(c.Request.Context(), *in)
		},
	})

	RegisterAction(ez, Action[listQ, *user.PagedResult]{
		Method: http.MethodGet,
		Path:   "",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *listQ) (*user.PagedResult, error) {
			return svc.List(c.Request.Context(), in.toQuery())
		},
	})

	RegisterAction(ez, Action[cursorQ, *user.CursorPage]{
		Method: http.MethodGet,
		Path:   "/cursor",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *cursorQ) (*user.CursorPage, error) {
			return svc.CursorList(c.Request.Context(), user.CursorQuery{Limit: in.Limit, After: in.After})
		},
	})

	ez.GET("/search", func(c *gin.Context) (any, error) {
		return svc.Search(c.Request.Context(), c.Query("q"))
	})

	ez.GET("/stats", func(c *gin.Context) (any, error) {
		return svc.Stats(c.Request.Context())
	})

	RegisterAction(ez, Action[bulkIn, *domain.BulkResult]{
		Method: http.MethodPost,
		Path:   "/bulk-upsert",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *bulkIn) (*domain.BulkResult, error) {
			return svc.BulkUpsert(c.Request.Context(), in.Users)
		},
	})

	ez.GET("/:id", func(c *gin.Context) (any, error) {
		return svc.Get(c.Request.Context(), c.Param("id"))
	})

	RegisterAction(ez, Action[user.UpdateUser, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/:id",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *user.UpdateUser) (*domain.User, error) {
			return svc.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	// 软删的审计字段放 body，且 body 可省略
	RegisterAction(ez, Action[struct{}, *domain.User]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			var in user.SoftDelete
			if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
				return nil, BadRequest(err.Error())
			}
			return svc.Remove(c.Request.Context(), c.Param("id"), in)
		},
	})

	RegisterAction(ez, Action[struct{}, *domain.User]{
		Method: http.MethodPost,
		Path:   "/:id/restore",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return svc.Restore(c.Request.Context(), c.Param("id"))
		},
	})
}
