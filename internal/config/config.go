// Package config reads the process configuration from the environment,
// seeded by a .env file when present.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tne-registro/tne-backend/internal/graph"
)

// Config is everything the server needs at startup.
type Config struct {
	Host string
	Port string

	Bucket        string
	DataObject    string // master delivery table
	AuthObject    string // role workbook
	LocalAuthFile string // on-disk fallback for the role workbook

	AllowedOrigins []string

	Graph graph.Config
}

// Load reads .env (if any) and the environment. Every value has a default
// except the bucket, which the caller must validate before serving.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using process environment")
	}

	return Config{
		Host: getEnv("HOST", "127.0.0.1"),
		Port: getEnv("PORT", "8000"),

		Bucket:        getEnv("GCS_BUCKET", ""),
		DataObject:    getEnv("EXCEL_BLOB_NAME", "1.0 pre_alpha tne/data.xlsx"),
		AuthObject:    getEnv("AUTH_BLOB_NAME", "1.0 pre_alpha tne/usuarios.xlsx"),
		LocalAuthFile: getEnv("LOCAL_AUTH_FILE", "usuarios.xlsx"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS",
			"https://tne-registro.vercel.app,http://127.0.0.1:8000,app://.")),

		Graph: graph.Config{
			TenantID:     getEnv("TENANT_ID", ""),
			ClientID:     getEnv("CLIENT_ID", ""),
			ClientSecret: getEnv("CLIENT_SECRET", ""),
			Host:         getEnv("SHAREPOINT_HOST", ""),
			SiteName:     getEnv("SHAREPOINT_SITE_NAME", ""),
			DriveName:    getEnv("SHAREPOINT_DRIVE_NAME", ""),
		},
	}
}

// GraphFilePath is the drive path of the delivery table when the Graph
// backend is used instead of the bucket.
func GraphFilePath() string {
	return getEnv("EXCEL_FILE_PATH", "")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
