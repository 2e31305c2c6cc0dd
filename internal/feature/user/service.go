package user

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/cache"
	"go-gin-mongo-users/internal/domain"
)

const statsCacheKey = "user:stats"

// Service 用户查询/写入引擎的编排层：把请求规格编译成存储查询并执行。
// 无共享可变状态，按请求并发安全；跨请求的顺序保证只来自存储的唯一索引。
type Service struct {
	store    domain.UserStore
	cache    *cache.Cache // 可为 nil，nil 时 stats 不走缓存
	log      *zap.Logger
	statsTTL time.Duration
}

func NewService(store domain.UserStore, c *cache.Cache, l *zap.Logger, statsTTL time.Duration) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	if statsTTL <= 0 {
		statsTTL = 30 * time.Second
	}
	return &Service{store: store, cache: c, log: l, statsTTL: statsTTL}
}

// List 偏移分页列表：过滤、投影、排序编译失败直接整体失败，不带半截过滤查库。
func (s *Service) List(ctx context.Context, q ListQuery) (*PagedResult, error) {
	filter, err := BuildFilter(q.Predicates, q.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	projection, err := BuildProjection(q.Fields, q.CustomFields)
	if err != nil {
		return nil, err
	}
	return paginate(ctx, s.store, filter, projection, ParseSort(q.Sort), q.Page, q.PageSize)
}

// CursorList 键集分页：端点固定 isDeleted=false 并排除隐藏字段，
// 删除元数据和 emailLower 永远不会从这条路径流出。
func (s *Service) CursorList(ctx context.Context, q CursorQuery) (*CursorPage, error) {
	return cursorPaginate(ctx, s.store, bson.M{"isDeleted": false}, hiddenProjection(), q.Limit, q.After)
}

// Search 全文检索，按相关度降序，同样固定活跃记录 + 隐藏字段排除。
func (s *Service) Search(ctx context.Context, query string) ([]bson.M, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewValidationError("search query is required", nil, nil)
	}
	projection := hiddenProjection()
	projection["score"] = bson.M{"$meta": "textScore"}

	items, err := s.store.Find(ctx, domain.FindQuery{
		Filter:     bson.M{"$text": bson.M{"$search": query}, "isDeleted": false},
		Projection: projection,
		Sort:       bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}},
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []bson.M{}
	}
	return items, nil
}

// BulkUpsert 幂等批量写：同一批按 emailLower 稳定去重后整批提交。
// upsert 按键原子，整批不是一个事务；跨批并发撞唯一索引由存储报冲突。
func (s *Service) BulkUpsert(ctx context.Context, users []BulkUser) (*domain.BulkResult, error) {
	ops, err := buildUpsertPlan(users, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	res, err := s.store.BulkUpsert(ctx, ops)
	if err != nil {
		return nil, err
	}
	s.log.Info("bulk upsert",
		zap.Int("batch", len(users)),
		zap.Int("ops", len(ops)),
		zap.Int64("matched", res.Matched),
		zap.Int64("modified", res.Modified),
		zap.Int64("upserted", res.Upserted),
	)
	return res, nil
}

// Stats 活跃记录的三切面统计，短 TTL 缓存 + singleflight 合并回源。
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache == nil {
		return s.loadStats(ctx)
	}
	return cache.GetOrLoadJSON[Stats](s.cache, ctx, statsCacheKey, s.statsTTL, s.loadStats)
}

func (s *Service) loadStats(ctx context.Context) (*Stats, error) {
	var out []Stats
	if err := s.store.Aggregate(ctx, statsPipeline(), &out); err != nil {
		return nil, err
	}
	st := Stats{}
	if len(out) > 0 {
		st = out[0]
	}
	if st.Summary == nil {
		st.Summary = []StatsSummary{}
	}
	if st.ByAgeRange == nil {
		st.ByAgeRange = []AgeBucket{}
	}
	if st.ByCreatedMonth == nil {
		st.ByCreatedMonth = []MonthCount{}
	}
	return &st, nil
}

// Create 单条创建，emailLower 在这里计算，重复 email 由存储以冲突报出。
func (s *Service) Create(ctx context.Context, in CreateUser) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		Name:       in.Name,
		Email:      in.Email,
		EmailLower: strings.ToLower(in.Email),
		Age:        in.Age,
		Phone:      in.Phone,
		Address:    in.Address,
		IsDeleted:  false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	id, err := s.store.InsertOne(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &domain.NotFoundError{Msg: "user not found"}
	}
	return u, nil
}

// Update 部分更新；email 变更时同步重算 emailLower，维持唯一键不变式。
func (s *Service) Update(ctx context.Context, id string, in UpdateUser) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Email != nil {
		set["email"] = *in.Email
		set["emailLower"] = strings.ToLower(*in.Email)
	}
	if in.Age != nil {
		set["age"] = *in.Age
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.Address != nil {
		set["address"] = *in.Address
	}

	u, err := s.store.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &domain.NotFoundError{Msg: "user not found"}
	}
	return u, nil
}

// Remove 软删：打标记 + 审计元数据，记录保留在库里。
func (s *Service) Remove(ctx context.Context, id string, in SoftDelete) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"isDeleted": true,
		"deletedAt": time.Now().UTC(),
	}
	if in.DeletedBy != "" {
		by, err := primitive.ObjectIDFromHex(in.DeletedBy)
		if err != nil {
			return nil, domain.NewValidationError("invalid deletedBy", []string{in.DeletedBy}, nil)
		}
		set["deletedBy"] = by
	}
	if in.DeleteReason != "" {
		set["deleteReason"] = in.DeleteReason
	}

	u, err := s.store.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &domain.NotFoundError{Msg: "user not found"}
	}
	return u, nil
}

// Restore 恢复软删：清空删除元数据，isDeleted 归位。
func (s *Service) Restore(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, err := s.store.UpdateByID(ctx, oid, bson.M{
		"$set":   bson.M{"isDeleted": false, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"deletedAt": "", "deletedBy": "", "deleteReason": ""},
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &domain.NotFoundError{Msg: "user not found"}
	}
	return u, nil
}

// BackfillEmailLower 给缺失 emailLower 的存量记录补齐，返回修补条数。
func (s *Service) BackfillEmailLower(ctx context.Context) (int64, error) {
	n, err := s.store.BackfillEmailLower(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("emailLower backfill done", zap.Int64("modified", n))
	return n, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError("invalid id", []string{id}, nil)
	}
	return oid, nil
}
