package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	TrendingPostsKey    = "posts:trending"
	ScenarioListPrefix  = "scenarios:list:%s:%d"
	ScenarioKeyPrefix   = "scenario:%s"
	scenarioListPattern = "scenarios:list:*"
	scenarioPattern     = "scenario:*"
)

const (
	TrendingTTL = 30 * time.Second
	ScenarioTTL = 10 * time.Minute
)

// ScenarioListKey keys a catalog listing by its filter; empty category and
// zero difficulty mean unfiltered.
func ScenarioListKey(category string, difficulty int) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf(ScenarioListPrefix, strings.ToLower(category), difficulty)
}

func ScenarioKey(id string) string {
	return fmt.Sprintf(ScenarioKeyPrefix, id)
}

func keyFamily(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateTrending drops the cached trending list after any post or reaction change.
func InvalidateTrending(ctx context.Context) {
	Invalidate(ctx, TrendingPostsKey)
}

// InvalidateScenarios drops every cached catalog listing and scenario.
func InvalidateScenarios(ctx context.Context) {
	if client == nil {
		return
	}
	for _, pattern := range []string{scenarioListPattern, scenarioPattern} {
		iter := client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}
	}
}
