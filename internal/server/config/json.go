package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/htmlkeeper/internal/flagx"
	"github.com/dmitrijs2005/htmlkeeper/internal/timex"
)

// JsonConfig mirrors Config for unmarshalling. Pointer fields distinguish
// "absent" from "zero" so a partial file only overrides what it mentions.
type JsonConfig struct {
	ListenAddr           *string         `json:"listen_addr"`
	PublicDir            *string         `json:"public_dir"`
	ArchiveSubdir        *string         `json:"archive_subdir"`
	UploadsDir           *string         `json:"uploads_dir"`
	IndexFileName        *string         `json:"index_file_name"`
	IndexTitle           *string         `json:"index_title"`
	Lang                 *string         `json:"lang"`
	EscapeMode           *string         `json:"escape_mode"`
	MaxUploadBytes       *int64          `json:"max_upload_bytes"`
	MaxConcurrentUploads *int            `json:"max_concurrent_uploads"`
	MirrorTimeout        *timex.Duration `json:"mirror_timeout"`
	ShutdownTimeout      *timex.Duration `json:"shutdown_timeout"`
	WatchArchive         *bool           `json:"watch_archive"`
	RemoteBackend        *string         `json:"remote_backend"`
	S3AccessKey          *string         `json:"s3_access_key"`
	S3SecretKey          *string         `json:"s3_secret_key"`
	S3Bucket             *string         `json:"s3_bucket"`
	S3Region             *string         `json:"s3_region"`
	S3BaseEndpoint       *string         `json:"s3_base_endpoint"`
	S3UsePathStyle       *bool           `json:"s3_use_path_style"`
	GCSBucket            *string         `json:"gcs_bucket"`
	GCSCredentialsFile   *string         `json:"gcs_credentials_file"`
	PublicBaseURL        *string         `json:"public_base_url"`
	LogLevel             *string         `json:"log_level"`
}

// parseJson overlays values from the JSON file given with -c or -config.
// Without either flag nothing is loaded. An unreadable or malformed file
// panics: the server must not start on a config it cannot read.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.PublicDir, c.PublicDir)
	setString(&config.ArchiveSubdir, c.ArchiveSubdir)
	setString(&config.UploadsDir, c.UploadsDir)
	setString(&config.IndexFileName, c.IndexFileName)
	setString(&config.IndexTitle, c.IndexTitle)
	setString(&config.Lang, c.Lang)
	setString(&config.EscapeMode, c.EscapeMode)
	if c.MaxUploadBytes != nil {
		config.MaxUploadBytes = *c.MaxUploadBytes
	}
	if c.MaxConcurrentUploads != nil {
		config.MaxConcurrentUploads = *c.MaxConcurrentUploads
	}
	if c.MirrorTimeout != nil {
		config.MirrorTimeout = c.MirrorTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.WatchArchive != nil {
		config.WatchArchive = *c.WatchArchive
	}
	setString(&config.RemoteBackend, c.RemoteBackend)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3UsePathStyle != nil {
		config.S3UsePathStyle = *c.S3UsePathStyle
	}
	setString(&config.GCSBucket, c.GCSBucket)
	setString(&config.GCSCredentialsFile, c.GCSCredentialsFile)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
