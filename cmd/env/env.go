package env

const (
	// Prefix is the environment variable prefix for all fxquotes flags
	Prefix = "FXQUOTES_"

	// DBURLSuffix is the Postgres connection string variable suffix
	DBURLSuffix = "DB_URL"

	// RedisAddrSuffix is the Redis address variable suffix
	RedisAddrSuffix = "REDIS_ADDR"
)
