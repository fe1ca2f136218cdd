package config

import (
	"time"

	"github.com/spf13/viper"
)

// Store selects and configures the projects backend.
type Store struct {
	Driver       string `validate:"oneof=memory sqlite mysql postgres redis mongo"`
	Source       string `validate:"required_if=Driver mysql,required_if=Driver postgres,required_if=Driver mongo"`
	MaxOpenConns int    `validate:"gte=0"`
	Redis        *Redis `validate:"required_if=Driver redis"`
	Mongo        *Mongo
}

// Mongo names the database and collection used by the mongo driver; the
// connection string is Store.Source.
type Mongo struct {
	Database   string
	Collection string
}

// Redis redis config struct
type Redis struct {
	Addr         string
	Username     string
	Password     string
	Db           int `validate:"gte=0"`
	KeyPrefix    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

func getStoreConfig(v *viper.Viper) *Store {
	s := &Store{
		Driver:       getStringOrDefault(v, "store.driver", "memory"),
		Source:       v.GetString("store.source"),
		MaxOpenConns: v.GetInt("store.max_open_conns"),
		Mongo: &Mongo{
			Database:   getStringOrDefault(v, "store.mongo.database", "scanpage"),
			Collection: getStringOrDefault(v, "store.mongo.collection", "projects"),
		},
	}
	if addr := v.GetString("store.redis.addr"); addr != "" {
		s.Redis = &Redis{
			Addr:         addr,
			Username:     v.GetString("store.redis.username"),
			Password:     v.GetString("store.redis.password"),
			Db:           v.GetInt("store.redis.db"),
			KeyPrefix:    getStringOrDefault(v, "store.redis.key_prefix", "scanpage"),
			ReadTimeout:  getDurationOrDefault(v, "store.redis.read_timeout", 3*time.Second),
			WriteTimeout: getDurationOrDefault(v, "store.redis.write_timeout", 3*time.Second),
			DialTimeout:  getDurationOrDefault(v, "store.redis.dial_timeout", 5*time.Second),
		}
	}
	return s
}
