package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// Config holds the resolved Atlassian connection settings for one domain.
type Config struct {
	Domain   string
	User     string
	APIToken string
	JQL      string
}

// Load reads the INI configuration file and resolves credentials. The file
// has a DEFAULT section with "domain" and "jql", plus one section per domain
// holding "user" and "api_token". domainOverride, when non-empty, takes
// precedence over the DEFAULT section.
func Load(path, domainOverride string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("configuration file %s not found", path)
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	domain := domainOverride
	if domain == "" {
		domain = v.GetString("default.domain")
	}
	if domain == "" {
		return Config{}, fmt.Errorf("atlassian domain is not specified (use --atlassian-domain or set 'domain' in the DEFAULT section of %s)", path)
	}

	return Config{
		Domain:   domain,
		User:     v.GetString(domain + ".user"),
		APIToken: v.GetString(domain + ".api_token"),
		JQL:      v.GetString("default.jql"),
	}, nil
}

// Validate checks that the settings required to talk to the API are present.
func (c Config) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("atlassian domain is required")
	}
	if c.User == "" {
		return fmt.Errorf("user is not specified in configuration file for domain %s", c.Domain)
	}
	if c.APIToken == "" {
		return fmt.Errorf("api_token is not specified in configuration file for domain %s", c.Domain)
	}
	return nil
}

// Save writes the configuration back to an INI file, preserving any sections
// for other domains that may already exist in it.
func Save(cfg Config, path string) error {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	def := file.Section(ini.DefaultSection)
	def.Key("domain").SetValue(cfg.Domain)
	if cfg.JQL != "" {
		def.Key("jql").SetValue(cfg.JQL)
	}

	sec := file.Section(cfg.Domain)
	sec.Key("user").SetValue(cfg.User)
	sec.Key("api_token").SetValue(cfg.APIToken)

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return os.Chmod(path, 0600)
}
