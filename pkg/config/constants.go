package config

const (
	// EnvPrefix namespaces every environment variable this service reads.
	EnvPrefix = "vitalfit"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
