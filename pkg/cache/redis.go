// pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"elearn/internal/models"
)

// studentViewTTL bounds staleness if an invalidation is ever missed.
const studentViewTTL = 24 * time.Hour

// RedisCache stores sanitized student quiz views. Only the stripped view is
// ever cached, so a cache read can never leak an answer key.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetStudentView(view *models.StudentQuizView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, studentViewKey(view.ID), data, studentViewTTL).Err()
}

func (c *RedisCache) GetStudentView(quizID uint) (*models.StudentQuizView, error) {
	data, err := c.client.Get(c.ctx, studentViewKey(quizID)).Bytes()
	if err != nil {
		return nil, err
	}

	var view models.StudentQuizView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *RedisCache) Invalidate(quizID uint) error {
	return c.client.Del(c.ctx, studentViewKey(quizID)).Err()
}

func studentViewKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:student-view", quizID)
}
