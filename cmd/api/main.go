package main

import (
    "log"
    "net/http"
    "os"
    "time"

    "github.com/storosso/gtm-server-storosso/internal/config"
    "github.com/storosso/gtm-server-storosso/internal/server"
)

func main() {
    cfg := config.Load()

    if cfg.MetaPixelID == "" && cfg.TikTokPixelID == "" {
        log.Println("warning: no destination pixel configured; forwarded events will be rejected by the destinations")
    }

    h := server.New(cfg)

    srv := &http.Server{
        Addr:              ":" + cfg.Port,
        Handler:           h,
        ReadTimeout:       10 * time.Second,
        ReadHeaderTimeout: 10 * time.Second,
        // Must cover the forward timeout so in-flight dispatches can
        // still write their aggregated result.
        WriteTimeout: cfg.ForwardTimeout + 15*time.Second,
        IdleTimeout:  60 * time.Second,
    }

    log.Printf("gtm relay listening on :%s", cfg.Port)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Println("server error:", err)
        os.Exit(1)
    }
}
