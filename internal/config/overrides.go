package config

import "strings"

// Overrides carries command-line values that take precedence over the file
// for a single run. Zero values leave the loaded setting unchanged.
type Overrides struct {
	Provider  string
	Voice     string
	Engine    string
	Codec     string
	Prober    string
	Format    string
	Lookahead *int
	MultiLine bool
	Direct    bool
	NoCache   bool
	Debug     bool
	LogFormat string
}

// Apply merges o into the configuration and re-validates the result.
func (c *Config) Apply(o Overrides) error {
	if v := strings.TrimSpace(o.Provider); v != "" {
		c.Synthesis.Provider = v
	}
	if v := strings.TrimSpace(o.Voice); v != "" {
		c.Synthesis.Voice = v
	}
	if v := strings.TrimSpace(o.Engine); v != "" {
		c.Synthesis.Engine = v
	}
	if v := strings.TrimSpace(o.Codec); v != "" && !strings.EqualFold(v, c.Synthesis.Codec) {
		c.Synthesis.Codec = v
		c.Synthesis.SampleRate = 0
	}
	if v := strings.TrimSpace(o.Prober); v != "" {
		c.Synthesis.Prober = v
	}
	if v := strings.TrimSpace(o.Format); v != "" {
		c.Subtitles.Format = v
	}
	if o.Lookahead != nil {
		c.Synthesis.Lookahead = *o.Lookahead
	}
	if o.MultiLine {
		c.Subtitles.MultiLine = true
	}
	if o.Direct {
		c.Output.Staged = false
	}
	if o.NoCache {
		c.Cache.Enabled = false
	}
	if o.Debug {
		c.Logging.Level = "debug"
	}
	if v := strings.TrimSpace(o.LogFormat); v != "" {
		c.Logging.Format = v
	}

	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}
