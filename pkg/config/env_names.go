package config

// EnvPrefix is the envconfig prefix shared by every FOODPOS_* variable.
const EnvPrefix = "FOODPOS"

const (
	EnvAppEnv     = "FOODPOS_APP_ENV"
	EnvPort       = "FOODPOS_APP_PORT"
	EnvDBDSN      = "FOODPOS_DB_DSN"
	EnvDBHost     = "FOODPOS_DB_HOST"
	EnvDBUser     = "FOODPOS_DB_USER"
	EnvDBName     = "FOODPOS_DB_NAME"
	EnvRedisURL   = "FOODPOS_REDIS_URL"
	EnvJWTSecret  = "FOODPOS_JWT_SECRET"
	EnvJWTIssuer  = "FOODPOS_JWT_ISSUER"
	EnvJWTExpMins = "FOODPOS_JWT_EXPIRATION_MINUTES"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
