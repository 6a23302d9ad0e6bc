package whitelist

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/core"
)

// Checker tells whether a sender belongs to a trusted domain
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new whitelist checker. A domain also covers its subdomains.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
		if domain != "" {
			normalized = append(normalized, domain)
		}
	}

	if len(normalized) > 0 {
		logger.Info("Initialized whitelist checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsWhitelisted checks a From header value or a bare address
func (c *Checker) IsWhitelisted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	address := ExtractSenderAddress(from)
	at := strings.LastIndexByte(address, '@')
	if at < 0 || at == len(address)-1 {
		return false
	}
	domain := strings.ToLower(address[at+1:])

	for _, trusted := range c.domains {
		if domain == trusted || strings.HasSuffix(domain, "."+trusted) {
			c.logger.Debug("Domain is whitelisted",
				zap.String("domain", domain),
				zap.String("from", from))
			return true
		}
	}
	return false
}

// ExtractSenderAddress returns the bracketed address of a From value, trimmed
func ExtractSenderAddress(from string) string {
	return strings.TrimSpace(core.ExtractSenderEmail(from))
}
