package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avoronin/placekeeper/internal/flagx"
	"github.com/avoronin/placekeeper/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "1h" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	StoreTimeout          timex.Duration `json:"store_timeout"`
	AssetBackend          string         `json:"asset_backend"`
	UploadDir             string         `json:"upload_dir"`
	UploadPrefix          string         `json:"upload_prefix"`
	MaxAssetSize          int64          `json:"max_asset_size"`
	S3AccessKey           string         `json:"s3_access_key"`
	S3SecretKey           string         `json:"s3_secret_key"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	GeocoderEndpoint      string         `json:"geocoder_endpoint"`
	GeocoderAPIKey        string         `json:"geocoder_api_key"`
}

// parseJson loads configuration values from the JSON file given via the
// -c/-config flags into the provided Config. If neither flag is set, nothing
// is loaded. If the file cannot be read or contains invalid JSON, the
// function panics: a broken config file should stop the boot.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.StoreTimeout = time.Duration(c.StoreTimeout.Duration)
	config.AssetBackend = c.AssetBackend
	config.UploadDir = c.UploadDir
	config.UploadPrefix = c.UploadPrefix
	config.MaxAssetSize = c.MaxAssetSize
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.GeocoderEndpoint = c.GeocoderEndpoint
	config.GeocoderAPIKey = c.GeocoderAPIKey
}
