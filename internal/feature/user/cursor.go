package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-users/internal/domain"
)

// CursorPageInfo 键集分页的续读信息。EndCursor 为空页时为 null。
type CursorPageInfo struct {
	EndCursor   *string `json:"endCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type CursorPage struct {
	Items    []bson.M       `json:"items"`
	PageInfo CursorPageInfo `json:"pageInfo"`
}

// cursorPaginate 键集分页：严格按 _id 升序（不可变且全序，才能保证页与页
// 不重不漏），给了 cursor 就限制 _id 严格大于它，多取一条探测是否还有下一页。
// cursor 只对同一 filter+sort 有效，引擎不阻止调用方换着用。
func cursorPaginate(ctx context.Context, store domain.UserStore, filter, projection bson.M, limit int64, after string) (*CursorPage, error) {
	if limit < 1 || limit > maxPageSize {
		return nil, domain.NewValidationError("limit out of range", nil, nil)
	}

	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}
	if after != "" {
		oid, err := primitive.ObjectIDFromHex(after)
		if err != nil {
			return nil, domain.NewValidationError("invalid cursor", []string{after}, nil)
		}
		f["_id"] = bson.M{"$gt": oid}
	}

	items, err := store.Find(ctx, domain.FindQuery{
		Filter:     f,
		Projection: projection,
		Sort:       bson.D{{Key: "_id", Value: 1}},
		Limit:      limit + 1,
	})
	if err != nil {
		return nil, err
	}

	hasNext := int64(len(items)) > limit
	if hasNext {
		items = items[:limit]
	}
	if items == nil {
		items = []bson.M{}
	}

	var end *string
	if len(items) > 0 {
		if oid, ok := items[len(items)-1]["_id"].(primitive.ObjectID); ok {
			s := oid.Hex()
			end = &s
		}
	}
	return &CursorPage{
		Items:    items,
		PageInfo: CursorPageInfo{EndCursor: end, HasNextPage: hasNext},
	}, nil
}
