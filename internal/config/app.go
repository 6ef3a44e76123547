package config

import (
	"os"
	"strings"
)

const defaultAddr = ":8080"

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Addr() string {
	if addr, ok := os.LookupEnv("APP_ADDR"); ok && addr != "" {
		return addr
	}
	return defaultAddr
}

// CorsOrigins lists the origins allowed by CORS_ORIGINS, comma separated.
// An empty list allows any origin.
func CorsOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Development is set by DEVELOPMENT to anything but "0".
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	return ok && development != "0"
}
