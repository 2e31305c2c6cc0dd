package user

// 请求级查询规格：由请求层绑定/校验后传入，只活在一次调用里，从不落库。

// ListQuery 偏移分页列表的查询规格。
type ListQuery struct {
	Page           int64
	PageSize       int64
	Sort           string
	Fields         Visibility
	CustomFields   string
	IncludeDeleted bool
	Predicates     Predicates
}

// CursorQuery 键集分页的查询规格。After 是上一页返回的不透明 cursor。
type CursorQuery struct {
	Limit int64
	After string
}

// CreateUser 创建 / 更新共用的记录字段。
type CreateUser struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Age     int     `json:"age" binding:"min=0,max=150"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateUser 部分更新：nil 字段不动。
type UpdateUser struct {
	Name    *string `json:"name" binding:"omitempty,min=1"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Age     *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// SoftDelete 软删的审计信息。
type SoftDelete struct {
	DeletedBy    string `json:"deletedBy" binding:"omitempty,len=24"`
	DeleteReason string `json:"deleteReason"`
}
