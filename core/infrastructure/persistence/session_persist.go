package persistence

import (
	"context"
	"errors"
	"fmt"

	"jansta/common/database"
	"jansta/common/log"
	"jansta/core/domain/entity"
	"jansta/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "sessions"

type SessionRepository struct {
	mongo *database.MongoManager
}

func NewSessionRepository(mongo *database.MongoManager) repository.SessionRepository {
	return &SessionRepository{mongo: mongo}
}

// EnsureIndexes 会话列表按创建时间倒序查询
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.mongo.Collection(sessionCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "date_key", Value: 1}}},
	})
	if err != nil {
		log.Error("创建会话索引失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}

// SaveSession 整个会话文档覆盖写入
func (r *SessionRepository) SaveSession(ctx context.Context, session *entity.Session) error {
	collection := r.mongo.Collection(sessionCollection)

	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts)
	if err != nil {
		log.Error("保存会话失败: session=%s err=%v", session.ID, err)
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}

// FindSession 根据ID查找会话
func (r *SessionRepository) FindSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	collection := r.mongo.Collection(sessionCollection)

	var session entity.Session
	err := collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrSessionNotFound
		}
		log.Error("查询会话失败: session=%s err=%v", sessionID, err)
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return &session, nil
}

// ListSessions 只取摘要字段，半庄数由聚合计算
func (r *SessionRepository) ListSessions(ctx context.Context, limit, offset int) ([]*entity.SessionSummary, error) {
	collection := r.mongo.Collection(sessionCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: int64(offset)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$project", Value: bson.M{
			"_id":         1,
			"date_key":    1,
			"created_at":  1,
			"updated_at":  1,
			"ended":       1,
			"match_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$matches", bson.A{}}}},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Error("查询会话列表失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	summaries := make([]*entity.SessionSummary, 0, limit)
	if err := cursor.All(ctx, &summaries); err != nil {
		log.Error("解析会话列表失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return summaries, nil
}

// DeleteSession 删除会话
func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	collection := r.mongo.Collection(sessionCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": sessionID})
	if err != nil {
		log.Error("删除会话失败: session=%s err=%v", sessionID, err)
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrSessionNotFound
	}
	return nil
}
