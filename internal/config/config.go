package config

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/kavya-builds/demodrop/internal/utils"
)

type S3Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type Config struct {
	Port        string
	Environment string

	// DataDir holds the SQLite database; UploadsDir is the root of the
	// per-submission asset tree. Neither is ever pruned by the service.
	DataDir    string
	UploadsDir string

	SessionSecret string

	// AdminPasswordHash is a bcrypt hash. When unset, AdminPassword is
	// hashed once at startup; its default is a documented demo weakness.
	AdminPasswordHash string
	AdminPassword     string

	// Login throttle: LoginPerMinute sustained attempts per address with
	// bursts up to LoginBurst.
	LoginPerMinute int
	LoginBurst     int

	// AssetBackend selects "disk" (default) or "s3".
	AssetBackend string

	CorsConfig cors.Options
	S3         S3Config
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENV", "development"),
		DataDir:           getEnv("DATA_DIR", "data"),
		UploadsDir:        getEnv("UPLOADS_DIR", "uploads"),
		SessionSecret:     sessionSecret(),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "changeme"),
		LoginPerMinute:    getEnvInt("LOGIN_PER_MINUTE", 10),
		LoginBurst:        getEnvInt("LOGIN_BURST", 5),
		AssetBackend:      getEnv("ASSET_BACKEND", "disk"),
		CorsConfig:        CorsConfig(),
		S3: S3Config{
			AccountID:       getEnv("S3_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("S3_BUCKET_NAME", ""),
			Region:          getEnv("S3_REGION", "auto"),
		},
	}
}

// sessionSecret reads SESSION_SECRET or falls back to a random per-process
// secret, which invalidates admin sessions on restart.
func sessionSecret() string {
	if value, ok := os.LookupEnv("SESSION_SECRET"); ok && value != "" {
		return value
	}
	secret, err := utils.GenerateSecureToken(32)
	if err != nil {
		log.Fatal("Failed to generate session secret:", err)
	}
	log.Println("SESSION_SECRET not set, using a random per-process secret")
	return secret
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Ignoring non-numeric %s=%q", key, value)
	}
	return fallback
}

func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
