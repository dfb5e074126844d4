package referrer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		referrer string
		source   string
		category string
	}{
		{"linkedin", "https://www.linkedin.com/feed", "LinkedIn", CategorySocial},
		{"facebook", "https://facebook.com/groups/123", "Facebook", CategorySocial},
		{"fb_short", "https://fb.com/story", "Facebook", CategorySocial},
		{"twitter", "https://twitter.com/home", "X", CategorySocial},
		{"x", "https://x.com/home", "X", CategorySocial},
		{"instagram_subdomain", "https://l.instagram.com/", "Instagram", CategorySocial},
		{"youtube_short", "https://youtu.be/abc123", "YouTube", CategorySocial},
		{"whatsapp", "https://l.wa.me/xyz", "WhatsApp", CategoryMessaging},
		{"telegram", "https://t.me/channel", "Telegram", CategoryMessaging},
		{"google", "https://www.google.com/search?q=x", "Google", CategorySearch},
		{"google_country_tld", "https://www.google.co.uk/url", "Google", CategorySearch},
		{"bing", "https://www.bing.com/search", "Bing", CategorySearch},
		{"duckduckgo", "https://duckduckgo.com/", "DuckDuckGo", CategorySearch},
		// yahoo.com is both a portal and a webmail host; search wins by design
		{"yahoo_is_search", "https://search.yahoo.com/search", "Yahoo", CategorySearch},
		{"gmail", "https://mail.google.com/mail/u/0/", "Gmail", CategoryEmail},
		{"outlook", "https://outlook.com/mail", "Outlook", CategoryEmail},
		{"generic_webmail", "https://mail.example.com/inbox", "Email", CategoryEmail},
		{"empty_is_direct", "", "Direct", CategoryDirect},
		{"direct_literal", "direct", "Direct", CategoryDirect},
		{"whitespace_is_direct", "   ", "Direct", CategoryDirect},
		{"malformed_is_unknown", "not a url", "Unknown", CategoryUnknown},
		{"no_host_is_unknown", "/relative/path", "Unknown", CategoryUnknown},
		{"fallback_website", "https://blog.example.org/post", "blog.example.org", CategoryWebsite},
		{"schemeless_referrer", "example.com/page", "example.com", CategoryWebsite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.referrer)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.category, got.Category)
		})
	}
}

func TestClassify_NeverMatchesLookalikeDomains(t *testing.T) {
	got := Classify("https://notlinkedin.example/page")
	assert.Equal(t, CategoryWebsite, got.Category)
	assert.Equal(t, "notlinkedin.example", got.Source)
}
