package useragent

import (
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Parser wraps the uap-go User-Agent parser with device type detection
// tuned for click analytics.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// DeviceInfo represents parsed device information for one click.
type DeviceInfo struct {
	DeviceType string // mobile, desktop, tablet, bot, unknown
	Browser    string // Chrome, Firefox, Safari, etc.
	OS         string // Windows, iOS, Android, etc.
	Raw        string // Original User-Agent string
}

// NewParser creates a parser backed by the regex set bundled with uap-go.
func NewParser(log *zap.Logger) *Parser {
	return &Parser{
		parser: uaparser.NewFromSaved(),
		log:    log,
	}
}

// ParseUserAgent parses a User-Agent string and returns device information.
// An empty input yields all-"unknown" fields.
func (p *Parser) ParseUserAgent(userAgent string) *DeviceInfo {
	if userAgent == "" {
		return &DeviceInfo{
			DeviceType: "unknown",
			Browser:    "unknown",
			OS:         "unknown",
		}
	}

	client := p.parser.Parse(userAgent)

	info := &DeviceInfo{
		Browser: orUnknown(client.UserAgent.Family),
		OS:      orUnknown(client.Os.Family),
		Raw:     userAgent,
	}
	info.DeviceType = determineDeviceType(client, userAgent)

	p.log.Debug("parsed User-Agent",
		zap.String("device_type", info.DeviceType),
		zap.String("browser", info.Browser),
		zap.String("os", info.OS),
	)

	return info
}

// determineDeviceType classifies the client as bot, tablet, mobile,
// desktop or unknown. Bots are checked first so that crawler traffic is
// never counted as a visitor device.
func determineDeviceType(client *uaparser.Client, userAgent string) string {
	if isBot(client, userAgent) {
		return "bot"
	}

	device := client.Device.Family
	if device != "" && device != "Other" {
		if containsAny(device, "iPad", "Tablet", "Kindle", "Surface") {
			return "tablet"
		}
		if containsAny(device, "iPhone", "Android", "BlackBerry", "Windows Phone", "Mobile", "Phone") {
			return "mobile"
		}
	}

	os := client.Os.Family
	if containsAny(os, "iOS", "Android", "Windows Phone", "BlackBerry OS") {
		if isTabletUA(os, userAgent) {
			return "tablet"
		}
		return "mobile"
	}

	if containsAny(os, "Windows", "Mac OS X", "macOS", "Linux", "Ubuntu", "Chrome OS", "FreeBSD") {
		return "desktop"
	}

	return "unknown"
}

// isBot checks if the User-Agent represents a bot/crawler.
func isBot(client *uaparser.Client, userAgent string) bool {
	indicators := []string{
		"Googlebot", "Bingbot", "Slurp", "DuckDuckBot", "Baiduspider",
		"YandexBot", "facebookexternalhit", "Twitterbot", "LinkedInBot",
		"SkypeUriPreview", "bot", "crawler", "spider", "scraper",
	}
	for _, indicator := range indicators {
		if containsFold(client.UserAgent.Family, indicator) || containsFold(userAgent, indicator) {
			return true
		}
	}
	return false
}

// isTabletUA distinguishes tablets from phones on mobile operating systems.
func isTabletUA(osFamily, userAgent string) bool {
	if containsFold(osFamily, "iOS") {
		return containsFold(userAgent, "iPad")
	}
	// Android tablets typically don't have "Mobile" in the User-Agent.
	if containsFold(osFamily, "Android") {
		return !containsFold(userAgent, "Mobile")
	}
	return false
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if containsFold(s, needle) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func orUnknown(s string) string {
	if s == "" || s == "Other" {
		return "unknown"
	}
	return s
}
