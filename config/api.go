package config

import (
	"fmt"
	"net/url"
)

const (
	DefaultAPIURL         = "https://wx.jwnzn.com/mini_jwnzn/miniapp/mp_getChargingData.action"
	DefaultUserAgent      = "Mozilla/5.0"
	DefaultSuccessMessage = "获取成功"
)

// APIConfig locates the charging data endpoint.
type APIConfig struct {
	URL       string `json:"url"`
	UserAgent string `json:"user_agent"`
	// SuccessMessage must equal the reply msg for a fetch to succeed. Use
	// "-" to accept any message.
	SuccessMessage string `json:"success_message"`
}

// SetDefaults applies the public endpoint and its expected reply.
func (c *APIConfig) SetDefaults() {
	if c.URL == "" {
		c.URL = DefaultAPIURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	switch c.SuccessMessage {
	case "":
		c.SuccessMessage = DefaultSuccessMessage
	case "-":
		c.SuccessMessage = ""
	}
}

// Validate checks that URL is an absolute http(s) URL.
func (c APIConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("url %q must be an absolute http(s) URL", c.URL)
	}
	return nil
}
