package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Config struct {
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	UploadPath    string
	MaxUploadSize int64
	UseMinio      bool
	Minio         MinioConfig

	ClassifyURL     string
	ClassifyEnabled bool

	GeocodeURL     string
	GeocodeEnabled bool

	SettingsPath string

	AdminEmail    string
	AdminPassword string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		log.Fatalf("invalid JWT_TTL: %v", err)
	}
	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE", "5242880"), 10, 64)
	if err != nil {
		log.Fatalf("invalid MAX_UPLOAD_SIZE: %v", err)
	}
	useMinio, _ := strconv.ParseBool(getEnv("USE_MINIO", "false"))
	minioSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	return &Config{
		DBSource:  getEnv("DB_SOURCE", "appeals.db"),
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    ttl,

		CORSOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		UploadPath:    getEnv("UPLOAD_PATH", "./uploads"),
		MaxUploadSize: maxUpload,
		UseMinio:      useMinio,
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "appeal-photos"),
			UseSSL:    minioSSL,
		},

		ClassifyURL:     getEnv("CLASSIFICATION_SERVICE_URL", "http://localhost:8000"),
		ClassifyEnabled: getEnv("CLASSIFICATION_ENABLED", "true") == "true",

		GeocodeURL:     getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeEnabled: getEnv("GEOCODE_ENABLED", "true") == "true",

		SettingsPath: getEnv("SYSTEM_SETTINGS_PATH", "configs/system_settings.json"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
