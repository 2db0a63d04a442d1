// Package sites decides which URLs count as tracked AI-chat usage.
package sites

import (
	"net/url"
	"strings"

	"github.com/j-veylop/ai-footprint-tui/internal/models"
)

// DefaultRules is the built-in tracked site table.
var DefaultRules = []models.SiteRule{
	{Host: "chat.openai.com", Name: "ChatGPT"},
	{Host: "chatgpt.com", Name: "ChatGPT"},
	{Host: "claude.ai", Name: "Anthropic Claude"},
	{Host: "grok.com", Name: "Grok"},
	// x.com is only AI usage inside the Grok sub-feature.
	{Host: "x.com", Name: "Grok (X)", PathPrefix: "/i/grok"},
	{Host: "poe.com", Name: "Poe"},
	{Host: "gemini.google.com", Name: "Google Gemini"},
	{Host: "copilot.microsoft.com", Name: "Microsoft Copilot"},
	{Host: "www.perplexity.ai", Name: "Perplexity"},
	{Host: "perplexity.ai", Name: "Perplexity"},
}

// Classifier maps URLs to tracked sites. It is immutable after construction.
type Classifier struct {
	rules map[string]models.SiteRule
}

// NewClassifier builds a classifier from rules. Later rules win on duplicate hosts;
// rules with an empty host or name are ignored.
func NewClassifier(rules []models.SiteRule) *Classifier {
	c := &Classifier{rules: make(map[string]models.SiteRule, len(rules))}
	for _, r := range rules {
		host := strings.ToLower(strings.TrimSpace(r.Host))
		if host == "" || r.Name == "" {
			continue
		}
		r.Host = host
		c.rules[host] = r
	}
	return c
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return NewClassifier(DefaultRules)
}

// Classify returns the tracked site for rawURL, or false when the URL is
// malformed, its host is unknown, or its path falls outside the rule's prefix.
func (c *Classifier) Classify(rawURL string) (models.TrackedSite, bool) {
	if rawURL == "" {
		return models.TrackedSite{}, false
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return models.TrackedSite{}, false
	}

	host := strings.ToLower(u.Hostname())
	rule, ok := c.rules[host]
	if !ok {
		return models.TrackedSite{}, false
	}

	if rule.PathPrefix != "" && !strings.HasPrefix(u.Path, rule.PathPrefix) {
		return models.TrackedSite{}, false
	}

	return models.TrackedSite{Host: host, SiteName: rule.Name}, true
}

// Rules returns a copy of the configured rules.
func (c *Classifier) Rules() []models.SiteRule {
	out := make([]models.SiteRule, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r)
	}
	return out
}

// Name returns the display name configured for host.
func (c *Classifier) Name(host string) (string, bool) {
	rule, ok := c.rules[strings.ToLower(strings.TrimSpace(host))]
	return rule.Name, ok
}

// Len returns the number of tracked hosts.
func (c *Classifier) Len() int {
	return len(c.rules)
}
