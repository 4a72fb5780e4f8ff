package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	articleKeyPrefix = "article:%s"
	userKeyPrefix    = "user:%d"
)

const (
	// ArticleTTL bounds staleness if an invalidation is ever missed.
	ArticleTTL = 10 * time.Minute
	UserTTL    = 5 * time.Minute
)

func ArticleKey(id uuid.UUID) string {
	return fmt.Sprintf(articleKeyPrefix, id)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateArticle drops the cached article. Called on every article mutation
// and on every sentence mutation, since the article representation embeds its
// sentence texts.
func InvalidateArticle(ctx context.Context, id uuid.UUID) {
	Invalidate(ctx, ArticleKey(id))
}
