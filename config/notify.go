package config

import "fmt"

// NotifyConfig controls the terminal output.
type NotifyConfig struct {
	// Mode is auto, audible or text.
	Mode        string `json:"mode"`
	ClearScreen bool   `json:"clear_screen"`
	Color       bool   `json:"color"`
}

func (c *NotifyConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "auto"
	}
}

func (c NotifyConfig) Validate() error {
	switch c.Mode {
	case "auto", "audible", "text":
		return nil
	}
	return fmt.Errorf("unknown mode %q", c.Mode)
}
