package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Opts struct {
	URI               string
	Database          string
	ConnectTimeoutSec int
	MaxPoolSize       int
}

// NewMongo 建连 + ping，失败由调用方 Fatal。
func NewMongo(o Opts) (*mongo.Client, *mongo.Database, error) {
	timeout := time.Duration(o.ConnectTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	copts := options.Client().ApplyURI(o.URI)
	if o.MaxPoolSize > 0 {
		copts.SetMaxPoolSize(uint64(o.MaxPoolSize))
	}
	client, err := mongo.Connect(ctx, copts)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(o.Database), nil
}

func Close(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}

// EnsureIndexes 用户集合的索引引导：
//   - emailLower 唯一索引（幂等 upsert 和冲突检测都靠它）
//   - name/email 加权全文索引（name 权重 3）
//   - age+createdAt 组合、isDeleted、createdAt 常规查询索引
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection("users")
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "emailLower", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "name", Value: "text"}, {Key: "email", Value: "text"}},
			Options: options.Index().
				SetWeights(bson.D{{Key: "name", Value: 3}, {Key: "email", Value: 1}}).
				SetName("text_search_index"),
		},
		{Keys: bson.D{{Key: "age", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	return err
}
