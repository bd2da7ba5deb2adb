// Package config handles configuration for the htmlkeeper server: built-in
// defaults, an optional JSON file, environment variables for credentials and
// finally command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the server. It is built once at startup
// and handed to the components that need it; nothing reads it lazily.
//
// Fields:
//   - ListenAddr: HTTP bind address.
//   - PublicDir / ArchiveSubdir / UploadsDir: on-disk layout. The archive
//     lives inside the public dir so it is served under /public.
//   - IndexFileName / IndexTitle / Lang: generated index page.
//   - EscapeMode: "raw" embeds submitted text verbatim, "escape" HTML-escapes it.
//   - MaxUploadBytes / MaxConcurrentUploads: upload limits.
//   - MirrorTimeout: deadline for each remote upload.
//   - RemoteBackend: "s3", "gcs" or "none".
//   - S3* / GCS*: object storage settings. PublicBaseURL overrides the
//     URL prefix returned for mirrored objects.
type Config struct {
	ListenAddr           string
	PublicDir            string
	ArchiveSubdir        string
	UploadsDir           string
	IndexFileName        string
	IndexTitle           string
	Lang                 string
	EscapeMode           string
	MaxUploadBytes       int64
	MaxConcurrentUploads int
	MirrorTimeout        time.Duration
	ShutdownTimeout      time.Duration
	WatchArchive         bool
	RemoteBackend        string
	S3AccessKey          string
	S3SecretKey          string
	S3Bucket             string
	S3Region             string
	S3BaseEndpoint       string
	S3UsePathStyle       bool
	GCSBucket            string
	GCSCredentialsFile   string
	PublicBaseURL        string
	LogLevel             string
}

// LoadDefaults populates Config with development defaults: local
// directories next to the binary and no remote mirror.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.PublicDir = "public"
	c.ArchiveSubdir = "archive"
	c.UploadsDir = "uploads"
	c.IndexFileName = "index.html"
	c.IndexTitle = "归档文件列表"
	c.Lang = "zh"
	c.EscapeMode = "raw"
	c.MaxUploadBytes = 50 << 20
	c.MaxConcurrentUploads = 64
	c.MirrorTimeout = 30 * time.Second
	c.ShutdownTimeout = 30 * time.Second
	c.WatchArchive = false
	c.RemoteBackend = "none"
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then environment variables, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
