package host

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnknownOption is returned when a ready configuration names an option no
// provider recognises.
var ErrUnknownOption = errors.New("unknown ready option")

// ReadyOptions is the configuration handed to Provider.Ready. The zero value is
// valid and every field is optional.
type ReadyOptions struct {
	DialTimeout time.Duration     `yaml:"dial_timeout"`
	Client      string            `yaml:"client"`
	Headers     map[string]string `yaml:"headers"`
}

var recognisedOptions = map[string]struct{}{
	"dial_timeout": {},
	"client":       {},
	"headers":      {},
}

// LoadReadyOptions reads ready options from a YAML file. An empty path yields
// the zero value.
func LoadReadyOptions(path string) (ReadyOptions, error) {
	if strings.TrimSpace(path) == "" {
		return ReadyOptions{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ReadyOptions{}, fmt.Errorf("read ready config: %w", err)
	}
	return ParseReadyOptions(data)
}

// ParseReadyOptions decodes YAML ready options, rejecting unknown keys.
func ParseReadyOptions(data []byte) (ReadyOptions, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return ReadyOptions{}, fmt.Errorf("parse ready config: %w", err)
	}
	var unknown []string
	for key := range raw {
		if _, ok := recognisedOptions[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return ReadyOptions{}, fmt.Errorf("%w: %s", ErrUnknownOption, strings.Join(unknown, ", "))
	}
	var opts ReadyOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return ReadyOptions{}, fmt.Errorf("parse ready config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return ReadyOptions{}, err
	}
	return opts, nil
}

// Validate checks option values.
func (o ReadyOptions) Validate() error {
	if o.DialTimeout < 0 {
		return fmt.Errorf("dial_timeout must be >= 0 (got %s)", o.DialTimeout)
	}
	return nil
}
