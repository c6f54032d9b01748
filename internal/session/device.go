package session

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent derives a human-readable device display name from a raw
// User-Agent header, e.g. "Chrome on Mac OS X". Shown on the session view so
// operators can recognize their own logins.
func ParseUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	os := ua.OS()

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return browser + " on " + os
}
