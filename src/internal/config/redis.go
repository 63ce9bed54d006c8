package config

import (
	"context"

	redisModule "carpool-service/src/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func LoadRedisConfig(viper *viper.Viper) error {
	CfgRedis := &redisModule.CfgRedis{
		UseCluster:           viper.GetBool("redis.use_cluster"),
		EnableTLS:            viper.GetBool("redis.tls"),
		RedisHost:            viper.GetString("redis.host"),
		RedisPort:            viper.GetString("redis.port"),
		RedisPassword:        viper.GetString("redis.password"),
		RedisDB:              viper.GetInt("redis.db"),
		RedisClusterNode:     viper.GetString("redis.cluster.node"),
		RedisClusterPassword: viper.GetString("redis.cluster.password"),
		PoolSize:             viper.GetInt("redis.pool_size"),
		DialTimeout:          viper.GetDuration("redis.dial_timeout"),
	}
	redisModule.LoadConfig(CfgRedis)
	return redisModule.InitConnection(context.Background())
}

func NewRedis() redis.UniversalClient {
	return redisModule.GetClient()
}
