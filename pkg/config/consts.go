package config

// EnvPrefix namespaces every Melodex environment variable.
const EnvPrefix = "MELODEX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared between Load, tests, and tooling.
const (
	EnvAppEnv     = "MELODEX_APP_ENV"
	EnvPort       = "MELODEX_APP_PORT"
	EnvDBDSN      = "MELODEX_DB_DSN"
	EnvDBHost     = "MELODEX_DB_HOST"
	EnvDBUser     = "MELODEX_DB_USER"
	EnvDBName     = "MELODEX_DB_NAME"
	EnvRedisURL   = "MELODEX_REDIS_URL"
	EnvJWTSecret  = "MELODEX_JWT_SECRET"
	EnvJWTIssuer  = "MELODEX_JWT_ISSUER"
	EnvJWTExpMins = "MELODEX_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
