package config

import (
    "os"
    "strconv"
    "time"
)

type Config struct {
    Port string

    MetaPixelID       string
    MetaAccessToken   string
    MetaTestEventCode string

    TikTokPixelID     string
    TikTokAccessToken string

    MaxBodyBytes   int64
    ForwardTimeout time.Duration
}

func Load() Config {
    return Config{
        Port:              getEnv("PORT", "8080"),
        MetaPixelID:       os.Getenv("META_PIXEL_ID"),
        MetaAccessToken:   os.Getenv("META_ACCESS_TOKEN"),
        MetaTestEventCode: os.Getenv("META_TEST_EVENT_CODE"),
        TikTokPixelID:     os.Getenv("TIKTOK_PIXEL_ID"),
        TikTokAccessToken: os.Getenv("TIKTOK_ACCESS_TOKEN"),
        MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
        ForwardTimeout:    time.Duration(getEnvInt("FORWARD_TIMEOUT_SECONDS", 15)) * time.Second,
    }
}

func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func getEnvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            return n
        }
    }
    return def
}
