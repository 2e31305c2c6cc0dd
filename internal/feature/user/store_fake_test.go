package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-users/internal/domain"
)

// fakeStore 引擎测试用的存储替身：记录收到的查询，对 canned 文档回放
// _id 键集过滤和 skip/limit 窗口，足够验证查询编译和分页边界语义。
type fakeStore struct {
	docs  []bson.M
	total int64

	findCalls  []domain.FindQuery
	countCalls []bson.M

	insertErr error
	inserted  []*domain.User
	byID      map[primitive.ObjectID]*domain.User

	updateCalls []bson.M
	updateRet   *domain.User
	updateErr   error

	bulkOps []domain.UpsertOp
	bulkRet *domain.BulkResult
	bulkErr error

	aggCalls  [][]bson.M
	aggOut    []Stats
	backfillN int64
}

func (f *fakeStore) calls() int { return len(f.findCalls) + len(f.countCalls) + len(f.aggCalls) }

func (f *fakeStore) Find(_ context.Context, q domain.FindQuery) ([]bson.M, error) {
	f.findCalls = append(f.findCalls, q)

	docs := f.docs
	if idf, ok := q.Filter["_id"].(bson.M); ok {
		if gt, ok := idf["$gt"].(primitive.ObjectID); ok {
			var after []bson.M
			for _, d := range docs {
				if d["_id"].(primitive.ObjectID).Hex() > gt.Hex() {
					after = append(after, d)
				}
			}
			docs = after
		}
	}
	if q.Skip >= int64(len(docs)) {
		docs = nil
	} else if q.Skip > 0 {
		docs = docs[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < int64(len(docs)) {
		docs = docs[:q.Limit]
	}
	return append([]bson.M(nil), docs...), nil
}

func (f *fakeStore) Count(_ context.Context, filter bson.M) (int64, error) {
	f.countCalls = append(f.countCalls, filter)
	return f.total, nil
}

func (f *fakeStore) InsertOne(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	if f.insertErr != nil {
		return primitive.NilObjectID, f.insertErr
	}
	f.inserted = append(f.inserted, u)
	return primitive.NewObjectID(), nil
}

func (f *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	return f.byID[id], nil
}

func (f *fakeStore) UpdateByID(_ context.Context, _ primitive.ObjectID, update bson.M) (*domain.User, error) {
	f.updateCalls = append(f.updateCalls, update)
	return f.updateRet, f.updateErr
}

func (f *fakeStore) BulkUpsert(_ context.Context, ops []domain.UpsertOp) (*domain.BulkResult, error) {
	f.bulkOps = ops
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	if f.bulkRet != nil {
		return f.bulkRet, nil
	}
	return &domain.BulkResult{Errors: []domain.BulkError{}}, nil
}

func (f *fakeStore) Aggregate(_ context.Context, pipeline []bson.M, out any) error {
	f.aggCalls = append(f.aggCalls, pipeline)
	*(out.(*[]Stats)) = f.aggOut
	return nil
}

func (f *fakeStore) BackfillEmailLower(context.Context) (int64, error) {
	return f.backfillN, nil
}

func docsWithIDs(n int) []bson.M {
	docs := make([]bson.M, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, bson.M{"_id": primitive.NewObjectID(), "name": "u", "age": 20 + i})
	}
	// primitive.NewObjectID 单调递增，天然升序
	return docs
}
