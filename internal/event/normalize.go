package event

import "strings"

// CustomEventName is the canonical name given to events that arrive
// without any event_name.
const CustomEventName = "CustomEvent"

// canonicalNames maps the tag templates' snake_case vocabulary to the
// capitalized form both destination APIs expect. Output strings are
// compared against fixed sets downstream, so the exact spelling matters.
var canonicalNames = map[string]string{
    "view_content":      "ViewContent",
    "add_to_cart":       "AddToCart",
    "begin_checkout":    "BeginCheckout",
    "initiate_checkout": "InitiateCheckout",
    "purchase":          "Purchase",
    "page_view":         "PageView",
}

// NormalizeName maps a known snake_case name (case-insensitively) to
// its canonical form. Names outside the vocabulary pass through
// unchanged; a missing name becomes CustomEventName.
func NormalizeName(raw string) string {
    if strings.TrimSpace(raw) == "" {
        return CustomEventName
    }
    if c, ok := canonicalNames[strings.ToLower(raw)]; ok {
        return c
    }
    return raw
}

// previewURLMarkers are domain substrings of the GTM preview and Tag
// Assistant tooling; traffic from them must never reach a destination.
var previewURLMarkers = []string{
    "tagassistant.google.com",
    "gtm-msr.appspot.com",
}

const previewTitleMarker = "tag assistant"

// IsPreviewOrBot reports whether the event originates from a tag
// debugging tool. Matching is case-insensitive substring search over
// event_source_url and page_title.
func IsPreviewOrBot(e RawEvent) bool {
    srcURL := strings.ToLower(e.GetString("event_source_url"))
    for _, m := range previewURLMarkers {
        if strings.Contains(srcURL, m) {
            return true
        }
    }
    return strings.Contains(strings.ToLower(e.GetString("page_title")), previewTitleMarker)
}
