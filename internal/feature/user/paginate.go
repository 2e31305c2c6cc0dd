package user

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"go-gin-mongo-users/internal/domain"
)

const maxPageSize = 100

// PageMeta 偏移分页的元信息。
type PageMeta struct {
	Total       int64 `json:"total"`
	Page        int64 `json:"page"`
	PageSize    int64 `json:"pageSize"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// PagedResult 一页数据 + 元信息。Data 永不为 null。
type PagedResult struct {
	Data []bson.M `json:"data"`
	Meta PageMeta `json:"meta"`
}

// paginate 偏移分页：skip=(page-1)*pageSize，数据查询和计数是同一过滤下的
// 两次独立读，并发发出、等齐后再组装。超出末页返回空数据 + 正确元信息。
func paginate(ctx context.Context, store domain.UserStore, filter, projection bson.M, sort bson.D, page, pageSize int64) (*PagedResult, error) {
	if page < 1 {
		return nil, domain.NewValidationError("page must be >= 1", []string{fmt.Sprint(page)}, nil)
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, domain.NewValidationError(
			fmt.Sprintf("pageSize must be in [1,%d]", maxPageSize), []string{fmt.Sprint(pageSize)}, nil)
	}

	var (
		data  []bson.M
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = store.Find(gctx, domain.FindQuery{
			Filter:     filter,
			Projection: projection,
			Sort:       sort,
			Skip:       (page - 1) * pageSize,
			Limit:      pageSize,
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = store.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if data == nil {
		data = []bson.M{}
	}
	totalPages := (total + pageSize - 1) / pageSize
	return &PagedResult{
		Data: data,
		Meta: PageMeta{
			Total:       total,
			Page:        page,
			PageSize:    pageSize,
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	}, nil
}
