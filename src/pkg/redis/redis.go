package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient redis.UniversalClient

func tlsConfig(enabled bool) *tls.Config {
	if !enabled {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// InitConnection opens the single-node or cluster client chosen by LoadConfig
// and pings it once.
func InitConnection(ctx context.Context) error {
	if !useCluster {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         RedisConfigData.Addr,
			Password:     RedisConfigData.Password,
			DB:           RedisConfigData.DB,
			TLSConfig:    tlsConfig(RedisConfigData.EnableTLS),
			DialTimeout:  RedisConfigData.DialTimeout,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     RedisConfigData.PoolSize,
			MaxRetries:   2,
		})
	} else {
		if len(RedisClusterConfigData.Hosts) == 0 {
			return fmt.Errorf("redis cluster enabled but no nodes configured")
		}
		redisClient = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        RedisClusterConfigData.Hosts,
			Password:     RedisClusterConfigData.Password,
			TLSConfig:    tlsConfig(RedisClusterConfigData.EnableTLS),
			DialTimeout:  RedisClusterConfigData.DialTimeout,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	}

	pingCtx, cancel := context.WithTimeout(ctx, RedisConfigData.DialTimeout)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("cannot connect to redis: %w", err)
	}
	return nil
}

func GetClient() redis.UniversalClient {
	return redisClient
}
