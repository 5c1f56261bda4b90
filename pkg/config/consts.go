package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "BLUSHMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "BLUSHMART_DB_DSN"
	EnvDBHost = "BLUSHMART_DB_HOST"
	EnvDBUser = "BLUSHMART_DB_USER"
	EnvDBName = "BLUSHMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
