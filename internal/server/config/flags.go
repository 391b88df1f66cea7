package config

import (
	"flag"
	"os"
	"time"

	"github.com/avoronin/placekeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-w int      store operation timeout, seconds
//	-k string   asset backend ("disk" or "s3")
//	-f string   disk upload directory
//	-m int      max asset size, bytes
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x string   geocoder endpoint
//	-y string   geocoder API key
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-w", "-k", "-f", "-m",
		"-u", "-p", "-b", "-g", "-e", "-x", "-y",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	storeTimeout := fs.Int("w", int(config.StoreTimeout.Seconds()), "store timeout (in seconds)")

	fs.StringVar(&config.AssetBackend, "k", config.AssetBackend, "asset backend (disk or s3)")
	fs.StringVar(&config.UploadDir, "f", config.UploadDir, "disk upload directory")
	fs.Int64Var(&config.MaxAssetSize, "m", config.MaxAssetSize, "max asset size (bytes)")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.GeocoderEndpoint, "x", config.GeocoderEndpoint, "geocoder endpoint")
	fs.StringVar(&config.GeocoderAPIKey, "y", config.GeocoderAPIKey, "geocoder API key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
}
