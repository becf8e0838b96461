package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	integrator "github.com/Novokreschennih/AI-Partner-Integrator"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/compiler"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/logging"
	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the profile looked up when --config is not given.
const DefaultPath = "integrator.yaml"

// Profile holds compile policy and process settings shared by all commands.
type Profile struct {
	StartTrigger   string                   `yaml:"start_trigger" json:"start_trigger"`
	Delay          workflow.DelayParameters `yaml:"delay" json:"delay"`
	Credential     workflow.Credential      `yaml:"credential" json:"credential"`
	LogLevel       string                   `yaml:"log_level" json:"log_level"`
	MaxScriptBytes int                      `yaml:"max_script_bytes" json:"max_script_bytes"`
}

// Default returns the built-in profile.
func Default() Profile {
	return Profile{
		StartTrigger:   compiler.DefaultStartTrigger,
		Delay:          workflow.DefaultDelay,
		Credential:     workflow.PlaceholderCredential,
		LogLevel:       "info",
		MaxScriptBytes: compiler.DefaultMaxScriptBytes,
	}
}

// Load reads a profile file (YAML, or JSON by extension) over the defaults.
// A missing file yields the defaults.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Profile{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Keys present in the file overwrite the defaults, including explicit zeros.
	p := Default()
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &p); err != nil {
			return Profile{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Profile{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return p, nil
}

// Merge returns p with every non-zero field of other applied on top.
// Command-line overrides use it; a zero delay amount has to be set explicitly.
func (p Profile) Merge(other Profile) Profile {
	if other.StartTrigger != "" {
		p.StartTrigger = other.StartTrigger
	}
	if other.Delay.Amount != 0 {
		p.Delay.Amount = other.Delay.Amount
	}
	if other.Delay.Unit != "" {
		p.Delay.Unit = other.Delay.Unit
	}
	if other.Credential.ID != "" {
		p.Credential.ID = other.Credential.ID
	}
	if other.Credential.Name != "" {
		p.Credential.Name = other.Credential.Name
	}
	if other.LogLevel != "" {
		p.LogLevel = other.LogLevel
	}
	if other.MaxScriptBytes != 0 {
		p.MaxScriptBytes = other.MaxScriptBytes
	}
	return p
}

// Validate checks the profile values.
func (p Profile) Validate() error {
	if _, err := logging.ParseLevel(p.LogLevel); err != nil {
		return err
	}
	if p.MaxScriptBytes < 0 {
		return fmt.Errorf("max_script_bytes must not be negative")
	}
	return compiler.Config{Delay: p.Delay}.Validate()
}

// Options converts the profile into compiler options.
func (p Profile) Options() []integrator.Option {
	return []integrator.Option{
		integrator.WithStartTrigger(p.StartTrigger),
		integrator.WithDelay(p.Delay.Amount, p.Delay.Unit),
		integrator.WithCredential(p.Credential.ID, p.Credential.Name),
		integrator.WithMaxScriptBytes(p.MaxScriptBytes),
	}
}
