package config

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "AMARA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "AMARA_APP_ENV"
	EnvPort          = "AMARA_APP_PORT"
	EnvDBDSN         = "AMARA_DB_DSN"
	EnvDBSQLitePath  = "AMARA_DB_SQLITE_PATH"
	EnvRedisURL      = "AMARA_REDIS_URL"
	EnvJWTSecret     = "AMARA_JWT_SECRET"
	EnvJWTIssuer     = "AMARA_JWT_ISSUER"
	EnvAdminEmail    = "AMARA_ADMIN_EMAIL"
	EnvAdminPassHash = "AMARA_ADMIN_PASSWORD_HASH"
	EnvWhatsAppNum   = "AMARA_ORDER_WHATSAPP_NUMBER"
	EnvBucketName    = "AMARA_BUCKET_NAME"
	EnvUseSQLite     = "AMARA_USE_SQLITE"
)
