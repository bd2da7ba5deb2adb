package config

import "os"

// Environment variables are meant for credentials, which should not sit in a
// JSON file or show up in the process list.
const (
	EnvS3AccessKey        = "HTMLKEEPER_S3_ACCESS_KEY"
	EnvS3SecretKey        = "HTMLKEEPER_S3_SECRET_KEY"
	EnvS3Bucket           = "HTMLKEEPER_S3_BUCKET"
	EnvS3Region           = "HTMLKEEPER_S3_REGION"
	EnvS3BaseEndpoint     = "HTMLKEEPER_S3_ENDPOINT"
	EnvGCSCredentialsFile = "HTMLKEEPER_GCS_CREDENTIALS_FILE"
)

func parseEnv(config *Config) {
	config.S3AccessKey = getEnv(EnvS3AccessKey, config.S3AccessKey)
	config.S3SecretKey = getEnv(EnvS3SecretKey, config.S3SecretKey)
	config.S3Bucket = getEnv(EnvS3Bucket, config.S3Bucket)
	config.S3Region = getEnv(EnvS3Region, config.S3Region)
	config.S3BaseEndpoint = getEnv(EnvS3BaseEndpoint, config.S3BaseEndpoint)
	config.GCSCredentialsFile = getEnv(EnvGCSCredentialsFile, config.GCSCredentialsFile)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
