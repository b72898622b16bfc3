package config

// EnvPrefix namespaces every environment variable consumed by the platform.
const EnvPrefix = "FRUITEE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "FRUITEE_APP_ENV"
	EnvPort   = "FRUITEE_APP_PORT"

	EnvDBDSN  = "FRUITEE_DB_DSN"
	EnvDBHost = "FRUITEE_DB_HOST"
	EnvDBUser = "FRUITEE_DB_USER"
	EnvDBName = "FRUITEE_DB_NAME"

	EnvRedisURL = "FRUITEE_REDIS_URL"

	EnvJWTSecret  = "FRUITEE_JWT_SECRET"
	EnvJWTIssuer  = "FRUITEE_JWT_ISSUER"
	EnvJWTExpMins = "FRUITEE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
