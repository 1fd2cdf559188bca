package util

import (
	"os"
	"strconv"
	"strings"
)

func GetEnvStr(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true"
}

func GetEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, WrapErr("failed to parse "+key, err)
	}
	return parsed, nil
}

// GetEnvList splits a separator delimited env var, dropping empty entries.
func GetEnvList(key, sep string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(key), sep) {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}
