package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/sharebox/internal/flagx"
)

var serverFlags = []string{
	"-a", "-l", "-w", "-m", "-d", "-k", "-f", "-o", "-s", "-t", "-r",
	"-u", "-p", "-b", "-g", "-e", "-x", "-q", "-y", "-trust-proxy",
	"-log-backend", "-log-level", "-log-format",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-l string   HTTP bind address (e.g., ":4000")
//	-w string   public base URL used in share links
//	-m string   record backend: memory | postgres | badger
//	-d string   PostgreSQL DSN
//	-k string   Badger data directory
//	-f string   blob backend: fs | s3 | minio
//	-o string   blob root directory (fs backend)
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-x int      max upload size, bytes
//	-q float    anonymous download rate, requests per second per client
//	-y int      anonymous download burst
//	-trust-proxy bool  key rate limits on X-Forwarded-For / X-Real-IP (use -trust-proxy=true)
//	-log-backend, -log-level, -log-format
//
// os.Args is first filtered with flagx.FilterArgs so flags meant for other
// parsers (such as -c) do not break this one.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "l", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.PublicBaseURL, "w", config.PublicBaseURL, "public base URL")
	fs.StringVar(&config.RecordBackend, "m", config.RecordBackend, "record backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BadgerPath, "k", config.BadgerPath, "badger directory")
	fs.StringVar(&config.BlobBackend, "f", config.BlobBackend, "blob backend")
	fs.StringVar(&config.BlobRoot, "o", config.BlobRoot, "blob root directory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.Int64Var(&config.MaxUploadBytes, "x", config.MaxUploadBytes, "max upload size in bytes")
	fs.Float64Var(&config.DownloadRateLimit, "q", config.DownloadRateLimit, "anonymous downloads per second per client")
	fs.IntVar(&config.DownloadBurst, "y", config.DownloadBurst, "anonymous download burst")
	fs.BoolVar(&config.TrustProxyHeaders, "trust-proxy", config.TrustProxyHeaders, "trust X-Forwarded-For / X-Real-IP from a reverse proxy")

	fs.StringVar(&config.LogBackend, "log-backend", config.LogBackend, "slog | zerolog")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "debug | info | warn | error")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "json | text | console")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
