package user

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"go-gin-mongo-users/internal/domain"
)

const maxBulkSize = 100

// BulkUser 批量 upsert 的候选记录。
type BulkUser struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Age     int     `json:"age" binding:"min=0,max=150"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// buildUpsertPlan 归一化 + 去重 + 生成写计划：
//  1. 每个候选计算 emailLower；
//  2. 同批内 emailLower 相同的只保留第一个出现的（稳定去重，其余静默丢弃）；
//  3. 每个幸存者一条按 emailLower 定位的 upsert：命中时 $set 业务字段和
//     updatedAt，插入时追加 emailLower/createdAt/isDeleted=false。
func buildUpsertPlan(users []BulkUser, now time.Time) ([]domain.UpsertOp, error) {
	if len(users) == 0 || len(users) > maxBulkSize {
		return nil, domain.NewValidationError(
			fmt.Sprintf("batch size must be in [1,%d]", maxBulkSize),
			[]string{fmt.Sprint(len(users))}, nil)
	}

	seen := make(map[string]struct{}, len(users))
	ops := make([]domain.UpsertOp, 0, len(users))
	for _, u := range users {
		lower := strings.ToLower(u.Email)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}

		ops = append(ops, domain.UpsertOp{
			Filter: bson.M{"emailLower": lower},
			Update: bson.M{
				"$set": bson.M{
					"name":      u.Name,
					"email":     u.Email,
					"age":       u.Age,
					"phone":     u.Phone,
					"address":   u.Address,
					"updatedAt": now,
				},
				"$setOnInsert": bson.M{
					"emailLower": lower,
					"createdAt":  now,
					"isDeleted":  false,
				},
			},
		})
	}
	return ops, nil
}
