package referrer

import (
	"net/url"
	"strings"
)

// Referrer categories.
const (
	CategorySocial    = "social"
	CategorySearch    = "search"
	CategoryEmail     = "email"
	CategoryMessaging = "messaging"
	CategoryWebsite   = "website"
	CategoryDirect    = "direct"
	CategoryUnknown   = "unknown"
)

// Classification is the human-readable traffic source derived from an HTTP
// referrer value.
type Classification struct {
	Source   string `json:"source"`
	Category string `json:"category"`
}

// rule maps a registrable domain to a named source. Matching is by exact
// hostname or dot-separated subdomain suffix, never by raw substring, so
// "notlinkedin.example" cannot match "linkedin.com".
type rule struct {
	domain   string
	source   string
	category string
}

// rules are ordered most-specific-first; the first match wins. Precedence
// is deliberate, not incidental: domains that could fall into two buckets
// (yahoo.com is both a search portal and a webmail host) carry an explicit
// entry for the bucket that wins.
var rules = []rule{
	// social
	{"linkedin.com", "LinkedIn", CategorySocial},
	{"facebook.com", "Facebook", CategorySocial},
	{"fb.com", "Facebook", CategorySocial},
	{"twitter.com", "X", CategorySocial},
	{"x.com", "X", CategorySocial},
	{"instagram.com", "Instagram", CategorySocial},
	{"tiktok.com", "TikTok", CategorySocial},
	{"youtube.com", "YouTube", CategorySocial},
	{"youtu.be", "YouTube", CategorySocial},

	// messaging
	{"whatsapp.com", "WhatsApp", CategoryMessaging},
	{"wa.me", "WhatsApp", CategoryMessaging},
	{"telegram.org", "Telegram", CategoryMessaging},
	{"t.me", "Telegram", CategoryMessaging},

	// search; yahoo.com classifies as search, not email
	{"bing.com", "Bing", CategorySearch},
	{"yahoo.com", "Yahoo", CategorySearch},
	{"duckduckgo.com", "DuckDuckGo", CategorySearch},

	// email
	{"gmail.com", "Gmail", CategoryEmail},
	{"outlook.com", "Outlook", CategoryEmail},
	{"outlook.live.com", "Outlook", CategoryEmail},
}

// Classify maps a raw referrer URL to a source name and category. It is a
// total function: empty input is Direct, unparsable input is Unknown, and
// any unrecognized host falls back to the website category with the host
// itself as the source.
func Classify(referrerURL string) Classification {
	trimmed := strings.TrimSpace(referrerURL)
	if trimmed == "" || strings.EqualFold(trimmed, "direct") {
		return Classification{Source: "Direct", Category: CategoryDirect}
	}

	host := hostnameOf(trimmed)
	if host == "" {
		return Classification{Source: "Unknown", Category: CategoryUnknown}
	}

	for _, r := range rules {
		if matchesDomain(host, r.domain) {
			return Classification{Source: r.source, Category: r.category}
		}
	}

	// Gmail's web client sends mail.google.com, which must win over the
	// Google search wildcard below.
	if host == "mail.google.com" {
		return Classification{Source: "Gmail", Category: CategoryEmail}
	}

	// Generic webmail hosts (mail.example.com, webmail.example.org).
	if strings.HasPrefix(host, "mail.") || strings.HasPrefix(host, "webmail.") {
		return Classification{Source: "Email", Category: CategoryEmail}
	}

	// Google serves from country TLDs (google.com, google.co.uk, ...).
	if strings.HasPrefix(host, "google.") || strings.Contains(host, ".google.") {
		return Classification{Source: "Google", Category: CategorySearch}
	}

	return Classification{Source: host, Category: CategoryWebsite}
}

// hostnameOf extracts a normalized hostname from a raw referrer value.
// Returns "" when the value does not contain a usable host.
func hostnameOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := parsed.Hostname()
	if host == "" {
		// Browsers occasionally send scheme-less referrers ("example.com/a").
		parsed, err = url.Parse("https://" + raw)
		if err != nil {
			return ""
		}
		host = parsed.Hostname()
	}

	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")

	// A host without a dot is not a resolvable referrer ("not a url").
	if !strings.Contains(host, ".") {
		return ""
	}

	return host
}

// matchesDomain reports whether host equals domain or is a subdomain of it.
func matchesDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
