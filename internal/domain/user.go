package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 用户实体（文档模型）。emailLower 永远等于 lowercase(email)，全库唯一；
// 软删只打标记不物理删除，isDeleted=false 时删除元数据必须为空。
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string              `bson:"name" json:"name,omitempty"`
	Email        string              `bson:"email" json:"email,omitempty"`
	EmailLower   string              `bson:"emailLower,omitempty" json:"emailLower,omitempty"`
	Age          int                 `bson:"age" json:"age"`
	Phone        *string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      *string             `bson:"address,omitempty" json:"address,omitempty"`
	IsDeleted    bool                `bson:"isDeleted" json:"isDeleted"`
	DeletedAt    *time.Time          `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	DeletedBy    *primitive.ObjectID `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	DeleteReason *string             `bson:"deleteReason,omitempty" json:"deleteReason,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// FindQuery 一次列表查询的全部输入：过滤 + 投影 + 排序 + 分页窗口。
// Sort 用 bson.D：后面的字段是前面字段的 tie-breaker，顺序必须保留。
type FindQuery struct {
	Filter     bson.M
	Projection bson.M
	Sort       bson.D
	Skip       int64
	Limit      int64
}

// UpsertOp 一条按唯一键定位的 upsert 写计划。
type UpsertOp struct {
	Filter bson.M
	Update bson.M
}

// BulkError 批量写里单条操作的失败信息。
type BulkError struct {
	Index   int    `json:"index"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type BulkResult struct {
	Matched  int64       `json:"matched"`
	Modified int64       `json:"modified"`
	Upserted int64       `json:"upserted"`
	Errors   []BulkError `json:"errors"`
}

// UserStore 记录存储能力。列表读取返回投影后的原始文档（字段集合由投影决定，
// 固定结构体承载不了）；按 ID 的读取返回完整实体，查不到返回 (nil, nil)。
type UserStore interface {
	InsertOne(ctx context.Context, u *User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*User, error)
	Find(ctx context.Context, q FindQuery) ([]bson.M, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	BulkUpsert(ctx context.Context, ops []UpsertOp) (*BulkResult, error)
	Aggregate(ctx context.Context, pipeline []bson.M, out any) error
	BackfillEmailLower(ctx context.Context) (int64, error)
}
