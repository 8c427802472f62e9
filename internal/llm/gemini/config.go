package gemini

import "time"

type Config struct {
	APIKey       string
	Model        string // analysis model
	ScoringModel string
	Temperature  float32
	Timeout      time.Duration // 0 leaves the deadline to the caller
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.ScoringModel == "" {
		c.ScoringModel = c.Model
	}
	return c
}
