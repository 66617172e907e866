package forwarder

import (
    "context"
    "encoding/json"
    "log"
    "net/http"
    "sync"

    "github.com/storosso/gtm-server-storosso/internal/event"
)

// Job pairs a forwarder with the bucket of events it must send.
type Job struct {
    Forwarder Forwarder
    Events    []event.RawEvent
}

// PlatformResult is the caller-visible outcome for one destination.
// Body is the destination response decoded as JSON when possible, else
// the raw text.
type PlatformResult struct {
    Status int `json:"status"`
    Body   any `json:"body"`
}

// Dispatch runs every job concurrently and waits for all of them to
// settle. Aggregation: 502 when any transport call rejected outright,
// even if the other destination succeeded; 207 when every call
// completed but at least one destination answered with a status >= 400;
// plain 200 otherwise.
func Dispatch(ctx context.Context, meta RequestMeta, jobs []Job) (int, map[string]PlatformResult) {
    results := make([]Result, len(jobs))
    errs := make([]error, len(jobs))

    var wg sync.WaitGroup
    for i, j := range jobs {
        wg.Add(1)
        go func(i int, j Job) {
            defer wg.Done()
            results[i], errs[i] = j.Forwarder.Send(ctx, j.Events, meta)
        }(i, j)
    }
    wg.Wait()

    out := make(map[string]PlatformResult, len(jobs))
    rejected := false
    destinationError := false
    for i, j := range jobs {
        if errs[i] != nil {
            rejected = true
            log.Printf("dispatch %s failed: %v", j.Forwarder.Platform(), errs[i])
            out[j.Forwarder.Platform()] = PlatformResult{
                Status: http.StatusBadGateway,
                Body:   errs[i].Error(),
            }
            continue
        }
        r := results[i]
        if r.StatusCode >= 400 {
            destinationError = true
            log.Printf("dispatch %s answered %d: %s", r.Platform, r.StatusCode, r.Body)
        }
        out[r.Platform] = PlatformResult{Status: r.StatusCode, Body: decodeBody(r.Body)}
    }

    switch {
    case rejected:
        return http.StatusBadGateway, out
    case destinationError:
        return http.StatusMultiStatus, out
    default:
        return http.StatusOK, out
    }
}

// decodeBody tries to surface destination responses as JSON;
// non-JSON bodies pass through as text.
func decodeBody(body string) any {
    var v any
    if err := json.Unmarshal([]byte(body), &v); err != nil {
        return body
    }
    return v
}
