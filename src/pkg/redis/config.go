package redis

import (
	"strings"
	"time"
)

type CfgRedis struct {
	UseCluster           bool
	EnableTLS            bool
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	RedisClusterNode     string
	RedisClusterPassword string
	PoolSize             int
	DialTimeout          time.Duration
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	EnableTLS   bool
	PoolSize    int
	DialTimeout time.Duration
}

type RedisClusterConfig struct {
	Hosts       []string
	Password    string
	EnableTLS   bool
	DialTimeout time.Duration
}

var (
	useCluster             bool
	RedisConfigData        RedisConfig
	RedisClusterConfigData RedisClusterConfig
)

func LoadConfig(config *CfgRedis) {
	useCluster = config.UseCluster

	dialTimeout := config.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}
	poolSize := config.PoolSize
	if poolSize == 0 {
		poolSize = 10
	}

	RedisConfigData = RedisConfig{
		Addr:        config.RedisHost + ":" + config.RedisPort,
		Password:    config.RedisPassword,
		DB:          config.RedisDB,
		EnableTLS:   config.EnableTLS,
		PoolSize:    poolSize,
		DialTimeout: dialTimeout,
	}

	var hosts []string
	for _, h := range strings.Split(config.RedisClusterNode, ";") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	RedisClusterConfigData = RedisClusterConfig{
		Hosts:       hosts,
		Password:    config.RedisClusterPassword,
		EnableTLS:   config.EnableTLS,
		DialTimeout: dialTimeout,
	}
}
