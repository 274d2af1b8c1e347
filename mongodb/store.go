package mongodb

import (
	"context"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOptions 查询选项，Skip 和 Limit 为 0 时不生效
type FindOptions struct {
	Skip       int64
	Limit      int64
	Sort       bson.D
	Projection bson.D
}

// Store 文档库的最小访问接口
type Store interface {
	CollectionExists(ctx context.Context, collection string) (bool, error)
	Count(ctx context.Context, collection string, filter bson.D) (int64, error)
	Find(ctx context.Context, collection string, filter bson.D, opts FindOptions) (paging.Cursor[access.Record], error)
}

// MongoStore 基于官方驱动的 Store 实现
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, client: db.Client()}
}

// Connect 连接并校验服务端可用
func Connect(ctx context.Context, uri string, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return NewMongoStore(client.Database(database)), nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: collection}})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filter bson.D) (int64, error) {
	return s.db.Collection(collection).CountDocuments(ctx, filter)
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter bson.D, opts FindOptions) (paging.Cursor[access.Record], error) {
	findOpts := options.Find()
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if len(opts.Projection) > 0 {
		findOpts.SetProjection(opts.Projection)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{ctx: ctx, cursor: cursor}, nil
}

// mongoCursor 把驱动的游标适配成 paging.Cursor，读完或出错时自动关闭
type mongoCursor struct {
	ctx    context.Context
	cursor *mongo.Cursor
	closed bool
}

func (c *mongoCursor) Next() bool {
	if c.closed {
		return false
	}
	if c.cursor.Next(c.ctx) {
		return true
	}
	_ = c.Close(c.ctx)
	return false
}

func (c *mongoCursor) Current() (access.Record, error) {
	var doc bson.M
	if err := c.cursor.Decode(&doc); err != nil {
		return nil, err
	}
	return access.Record(doc), nil
}

func (c *mongoCursor) Err() error {
	return c.cursor.Err()
}

func (c *mongoCursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.cursor.Close(ctx)
}
