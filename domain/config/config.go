package config

import "stage-dashboard/domain/progress"

// Config represents the structure of config.yml used by the tool.
type Config struct {
	Datasets  []Dataset `yaml:"datasets"`
	Dashboard Dashboard `yaml:"dashboard"`
}

// Dataset names a published spreadsheet feed (usually one per year).
type Dataset struct {
	ID  string `yaml:"id"`
	URL string `yaml:"url"`
	// TokenEnv names an env var holding a bearer token for feeds that are not public.
	TokenEnv string `yaml:"token_env"`
}

type Dashboard struct {
	PreferredStages []string         `yaml:"preferred_stages"`
	VideoStage      string           `yaml:"video_stage"`
	VideoMarker     string           `yaml:"video_marker"`
	StagePrefix     *string          `yaml:"stage_prefix"`
	Metrics         progress.Metrics `yaml:"metrics"`
	OnFailure       string           `yaml:"on_failure"`
}

// Dataset returns the dataset with id, if configured.
func (c *Config) Dataset(id string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.ID == id {
			return d, true
		}
	}
	return Dataset{}, false
}

// Options converts the dashboard section into aggregation options. Unset fields
// keep the built-in defaults.
func (c *Config) Options() progress.Options {
	opt := progress.DefaultOptions()
	d := c.Dashboard
	if len(d.PreferredStages) > 0 {
		opt.PreferredStages = d.PreferredStages
	}
	if d.VideoStage != "" {
		opt.VideoStage = d.VideoStage
	}
	if d.VideoMarker != "" {
		opt.VideoMarker = d.VideoMarker
	}
	if d.StagePrefix != nil {
		opt.StagePrefix = *d.StagePrefix
	}
	if d.Metrics.Words != "" {
		opt.Metrics.Words = d.Metrics.Words
	}
	if d.Metrics.Hours != "" {
		opt.Metrics.Hours = d.Metrics.Hours
	}
	if d.Metrics.People != "" {
		opt.Metrics.People = d.Metrics.People
	}
	return opt
}

// FailurePolicy falls back to retain for unknown values; Load rejects those up front.
func (c *Config) FailurePolicy() progress.FailurePolicy {
	p, _ := progress.ParseFailurePolicy(c.Dashboard.OnFailure)
	return p
}
