package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables. A .env file
// in the working directory is loaded first if present; real environment
// variables win over .env values (godotenv does not override existing
// ones). Only variables that are actually set replace config fields.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent := func(dst *string, names ...string) {
		for _, name := range names {
			if v := os.Getenv(name); v != "" {
				*dst = v
				return
			}
		}
	}

	setIfPresent(&config.EndpointAddrHTTP, "HTTP_ADDR")
	setIfPresent(&config.DatabaseDSN, "DATABASE_DSN", "DATABASE_URL")
	setIfPresent(&config.SecretKey, "SECRET_KEY")
	setIfPresent(&config.S3AccessKeyID, "AWS_ACCESS_KEY_ID")
	setIfPresent(&config.S3SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setIfPresent(&config.S3Bucket, "S3_BUCKET", "AWS_S3_BUCKET")
	setIfPresent(&config.S3Region, "AWS_REGION", "AWS_DEFAULT_REGION")
	setIfPresent(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setIfPresent(&config.PublicURLPrefix, "PUBLIC_S3_URL_PREFIX")
}
