package config

const (
	EnvPrefix = "JOCRIL"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "JOCRIL_APP_ENV"
	EnvPort     = "JOCRIL_APP_PORT"
	EnvSiteURL  = "JOCRIL_SITE_URL"
	EnvDBDSN    = "JOCRIL_DB_DSN"
	EnvDBHost   = "JOCRIL_DB_HOST"
	EnvDBUser   = "JOCRIL_DB_USER"
	EnvDBName   = "JOCRIL_DB_NAME"
	EnvRedisURL = "JOCRIL_REDIS_URL"

	EnvJWTSecret  = "JOCRIL_JWT_SECRET"
	EnvJWTIssuer  = "JOCRIL_JWT_ISSUER"
	EnvJWTExpMins = "JOCRIL_JWT_EXPIRATION_MINUTES"

	EnvEuPagoAPIKey  = "JOCRIL_EUPAGO_API_KEY"
	EnvEuPagoBaseURL = "JOCRIL_EUPAGO_BASE_URL"
	EnvAdminEmails   = "JOCRIL_ADMIN_EMAILS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// VATRate is the Portuguese standard VAT applied across the catalog.
const VATRate = 0.23
