package repo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-gin-mongo-users/internal/domain"
)

const usersCollection = "users"

// UserRepo domain.UserStore 的 mongo 实现。唯一索引冲突在这里翻译成
// domain.ConflictError，上层不感知驱动错误码。
type UserRepo struct{ col *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{col: db.Collection(usersCollection)}
}

func (r *UserRepo) InsertOne(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, &domain.ConflictError{Msg: "email already exists"}
		}
		return primitive.NilObjectID, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u domain.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ConflictError{Msg: "email already exists"}
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Find(ctx context.Context, q domain.FindQuery) ([]bson.M, error) {
	opts := options.Find()
	if q.Projection != nil {
		opts.SetProjection(q.Projection)
	}
	if q.Sort != nil {
		opts.SetSort(q.Sort)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := r.col.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *UserRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, filter)
}

// BulkUpsert 整批一次提交。批内 upsert 对唯一键原子，整批不是事务；
// 撞唯一索引报冲突，其余单条写失败填进 Errors 返回。
func (r *UserRepo) BulkUpsert(ctx context.Context, ops []domain.UpsertOp) (*domain.BulkResult, error) {
	models := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(op.Filter).
			SetUpdate(op.Update).
			SetUpsert(true))
	}

	res, err := r.col.BulkWrite(ctx, models)
	out := &domain.BulkResult{Errors: []domain.BulkError{}}
	if res != nil {
		out.Matched = res.MatchedCount
		out.Modified = res.ModifiedCount
		out.Upserted = res.UpsertedCount
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ConflictError{Msg: "duplicate email in concurrent upsert"}
		}
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) {
			for _, we := range bwe.WriteErrors {
				out.Errors = append(out.Errors, domain.BulkError{
					Index:   we.Index,
					Code:    we.Code,
					Message: we.Message,
				})
			}
			return out, nil
		}
		return nil, err
	}
	return out, nil
}

func (r *UserRepo) Aggregate(ctx context.Context, pipeline []bson.M, out any) error {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// BackfillEmailLower 用聚合管道更新一把补齐存量记录的 emailLower。
func (r *UserRepo) BackfillEmailLower(ctx context.Context) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"emailLower": bson.M{"$exists": false}},
		bson.M{"emailLower": nil},
		bson.M{"emailLower": ""},
	}}
	update := bson.A{
		bson.M{"$set": bson.M{"emailLower": bson.M{"$toLower": "$email"}}},
	}
	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
