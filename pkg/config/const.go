package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "ORIPA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "ORIPA_APP_ENV"
	EnvPort       = "ORIPA_APP_PORT"
	EnvDBDSN      = "ORIPA_DB_DSN"
	EnvDBHost     = "ORIPA_DB_HOST"
	EnvDBUser     = "ORIPA_DB_USER"
	EnvDBName     = "ORIPA_DB_NAME"
	EnvRedisURL   = "ORIPA_REDIS_URL"
	EnvJWTSecret  = "ORIPA_JWT_SECRET"
	EnvJWTIssuer  = "ORIPA_JWT_ISSUER"
	EnvJWTExpMins = "ORIPA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
