package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/htmlkeeper/internal/flagx"
)

var (
	serverFlags = []string{
		"-a", "-public", "-archive", "-uploads", "-index", "-index-title", "-lang",
		"-escape", "-max-upload", "-max-uploads", "-mirror-timeout", "-shutdown-timeout",
		"-watch", "-remote", "-s3-access-key", "-s3-secret-key", "-s3-bucket", "-s3-region",
		"-s3-endpoint", "-s3-path-style", "-gcs-bucket", "-gcs-credentials",
		"-public-base-url", "-log-level",
	}
	serverBoolFlags = []string{"-watch", "-s3-path-style"}
)

// parseFlags overlays command-line flags onto config. Only the flags listed
// in serverFlags are looked at (see flagx.FilterArgs), so -c/-config and
// flags owned by other components do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags, serverBoolFlags...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to listen on")
	fs.StringVar(&config.PublicDir, "public", config.PublicDir, "public directory served under /public")
	fs.StringVar(&config.ArchiveSubdir, "archive", config.ArchiveSubdir, "archive directory, relative to the public directory")
	fs.StringVar(&config.UploadsDir, "uploads", config.UploadsDir, "uploads directory")
	fs.StringVar(&config.IndexFileName, "index", config.IndexFileName, "archive index file name")
	fs.StringVar(&config.IndexTitle, "index-title", config.IndexTitle, "archive index page title")
	fs.StringVar(&config.Lang, "lang", config.Lang, "lang attribute of generated pages")
	fs.StringVar(&config.EscapeMode, "escape", config.EscapeMode, "content embedding: raw or escape")
	fs.Int64Var(&config.MaxUploadBytes, "max-upload", config.MaxUploadBytes, "maximum upload size in bytes")
	fs.IntVar(&config.MaxConcurrentUploads, "max-uploads", config.MaxConcurrentUploads, "maximum concurrent uploads")
	fs.DurationVar(&config.MirrorTimeout, "mirror-timeout", config.MirrorTimeout, "timeout for each remote upload")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.BoolVar(&config.WatchArchive, "watch", config.WatchArchive, "rebuild the index on external archive changes")
	fs.StringVar(&config.RemoteBackend, "remote", config.RemoteBackend, "remote store: s3, gcs or none")
	fs.StringVar(&config.S3AccessKey, "s3-access-key", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "s3-secret-key", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint (MinIO, OSS)")
	fs.BoolVar(&config.S3UsePathStyle, "s3-path-style", config.S3UsePathStyle, "use path-style S3 addressing")
	fs.StringVar(&config.GCSBucket, "gcs-bucket", config.GCSBucket, "GCS bucket")
	fs.StringVar(&config.GCSCredentialsFile, "gcs-credentials", config.GCSCredentialsFile, "GCS service account JSON")
	fs.StringVar(&config.PublicBaseURL, "public-base-url", config.PublicBaseURL, "URL prefix for mirrored objects")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
