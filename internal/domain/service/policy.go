package service

import (
	"net/url"
	"strings"
)

// URLPolicy validates a request URL before any network activity: scheme
// handling and the domain blocklist.
type URLPolicy struct {
	blocked map[string]struct{}
}

// NewURLPolicy builds a policy from the configured blocklist. Domains are
// matched case-insensitively against the host, either exactly or as a
// parent domain (img.malware.com matches malware.com).
func NewURLPolicy(blockedDomains []string) *URLPolicy {
	blocked := make(map[string]struct{}, len(blockedDomains))
	for _, d := range blockedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			blocked[d] = struct{}{}
		}
	}
	return &URLPolicy{blocked: blocked}
}

// Check parses and vets a URL. The insecure flag is set for plain HTTP,
// which proceeds with a warning rather than being refused.
func (p *URLPolicy) Check(raw string) (insecure bool, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return false, ErrInvalidURL(raw, err)
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "https":
	case "http":
		insecure = true
	default:
		return false, ErrUnsupportedScheme(scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false, ErrMissingHost
	}

	if p.isBlocked(host) {
		return insecure, ErrBlockedDomain
	}

	return insecure, nil
}

func (p *URLPolicy) isBlocked(host string) bool {
	if _, ok := p.blocked[host]; ok {
		return true
	}
	for domain := range p.blocked {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
