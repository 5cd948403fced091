package utils

import (
	"log"
	"medblock-service/internal/pkg/constvars"
	"os"
	"strconv"
	"strings"
)

// envOr returns the parsed variable, or fallback when it is unset, blank or
// unparsable. Parse failures are logged once per lookup.
func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	value, err := parse(strings.TrimSpace(raw))
	if err != nil {
		log.Printf(constvars.ErrEnvParsing, key, err)
		return fallback
	}
	return value
}

// GetEnvString keeps surrounding space of a set variable, only blank values
// fall back.
func GetEnvString(key, defaultValue string) string {
	if raw, ok := os.LookupEnv(key); ok && strings.TrimSpace(raw) != "" {
		return raw
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	return envOr(key, defaultValue, strconv.Atoi)
}

func GetEnvBool(key string, defaultValue bool) bool {
	return envOr(key, defaultValue, strconv.ParseBool)
}
