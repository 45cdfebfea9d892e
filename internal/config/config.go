// Package config loads the optional YAML settings for a verification run.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Suffix        string `yaml:"suffix"`
	Algorithm     string `yaml:"algorithm"`
	ReportFile    string `yaml:"report_file"`
	Progress      bool   `yaml:"progress"`
	FailOnCorrupt bool   `yaml:"fail_on_corrupt"`
}

var suffixAlgorithms = map[string]string{
	".sha1":   "SHA1",
	".sha256": "SHA256",
	".sha384": "SHA384",
	".sha512": "SHA512",
	".md5":    "MD5",
}

func Default() Config {
	return Config{Suffix: ".sha1"}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// ResolvedAlgorithm is the configured algorithm, or the one implied by the
// suffix when none is set.
func (c Config) ResolvedAlgorithm() string {
	if alg := strings.TrimSpace(c.Algorithm); alg != "" {
		return strings.ToUpper(alg)
	}
	return suffixAlgorithms[strings.ToLower(c.Suffix)]
}

func (c Config) Validate() error {
	s := c.Suffix
	if !strings.HasPrefix(s, ".") || len(s) < 2 {
		return errors.Errorf("suffix %q must be a dot followed by a name, e.g. .sha1", s)
	}
	if strings.ContainsAny(s[1:], `./\`) {
		return errors.Errorf("suffix %q must be a single extension", s)
	}
	if c.ResolvedAlgorithm() == "" {
		return errors.Errorf("no algorithm configured and none implied by suffix %q", s)
	}
	return nil
}
