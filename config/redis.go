package config

import (
	"sync"
)

var (
	redisOnce   sync.Once
	redisConfig *RedisConfig
)

type RedisConfig struct {
	Addr string
	DB   int
	// InboundChannel 宿主消息的 pub/sub 频道
	InboundChannel string
	// ReadyChannel 对外宣告 VIEWER_READY 的频道
	ReadyChannel string
}

func GetRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		loadEnv()

		redisConfig = &RedisConfig{
			Addr:           getEnv("REDIS_ADDR", "localhost:6379"),
			DB:             getEnvInt("REDIS_DB", 0),
			InboundChannel: getEnv("VIEWER_INBOUND_CHANNEL", "docview:inbound"),
			ReadyChannel:   getEnv("VIEWER_READY_CHANNEL", "docview:ready"),
		}
	})
	return redisConfig
}
