package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"inkwell.io/blog/pkg/config"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"

	ImageStoreAzure      = "azure"
	ImageStoreCloudinary = "cloudinary"
)

// AppConfig extends GlobalConfig with the blog service configuration.
type AppConfig struct {
	config.GlobalConfig
	AccessTokenSecret  string
	RefreshTokenSecret string
	CookieSecure       bool
	CORSOrigins        []string

	StoreDriver   string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string

	ImageStore                   string
	AzureStorageConnectionString string
	BlobContainerName            string
	CloudinaryURL                string
	CloudinaryFolder             string
}

func LoadAppConfig() *AppConfig {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}
	conf := &AppConfig{
		GlobalConfig:       *config.LoadGlobalConfig(),
		AccessTokenSecret:  config.GetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: config.GetEnv("REFRESH_TOKEN_SECRET"),
		CookieSecure:       config.GetEnvBool("COOKIE_SECURE", true),
		CORSOrigins:        splitList(config.GetEnvOrDefault("CORS_ORIGINS", "http://localhost:5173")),
		StoreDriver:        strings.ToLower(config.GetEnvOrDefault("STORE_DRIVER", StoreDriverPostgres)),
		ImageStore:         strings.ToLower(config.GetEnvOrDefault("IMAGE_STORE", ImageStoreCloudinary)),
		MongoDatabase:      config.GetEnvOrDefault("MONGO_DATABASE", "inkwell"),
		BlobContainerName:  config.GetEnvOrDefault("BLOB_CONTAINER_NAME", "inkwell"),
		CloudinaryFolder:   config.GetEnvOrDefault("CLOUDINARY_FOLDER", "inkwell"),
	}

	switch conf.StoreDriver {
	case StoreDriverPostgres:
		conf.PostgresDSN = config.GetEnv("POSTGRES_DSN")
	case StoreDriverMongo:
		conf.MongoURI = config.GetEnv("MONGO_URI")
	case StoreDriverMemory:
	default:
		panic("unsupported STORE_DRIVER: " + conf.StoreDriver)
	}

	switch conf.ImageStore {
	case ImageStoreAzure:
		conf.AzureStorageConnectionString = config.GetEnv("AZURE_STORAGE_CONNECTION_STRING")
	case ImageStoreCloudinary:
		conf.CloudinaryURL = config.GetEnv("CLOUDINARY_URL")
	default:
		panic("unsupported IMAGE_STORE: " + conf.ImageStore)
	}
	return conf
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
