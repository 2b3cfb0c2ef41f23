package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mchmarny/revpulse/pkg/vader"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	ScorerVader = "vader"
	ScorerBayes = "bayes"
)

// Scorers lists the supported polarity scorers.
var Scorers = []string{ScorerVader, ScorerBayes}

// Bank is a banking app whose reviews are analyzed.
type Bank struct {
	Code  string `yaml:"code" json:"code"`
	Name  string `yaml:"name" json:"name"`
	AppID string `yaml:"app_id" json:"app_id"`
}

// Sentiment configures the polarity scorer.
type Sentiment struct {
	Scorer      string `yaml:"scorer" json:"scorer"`
	LexiconURL  string `yaml:"lexicon_url" json:"lexicon_url"`
	LexiconFile string `yaml:"lexicon_file" json:"lexicon_file"`
}

// Config represents app config object.
type Config struct {
	Banks     []*Bank   `yaml:"banks" json:"banks"`
	Sentiment Sentiment `yaml:"sentiment" json:"sentiment"`
}

func getDefaultConfig() *Config {
	return &Config{
		Banks: []*Bank{
			{Code: "CBE", Name: "Commercial Bank of Ethiopia", AppID: "com.combanketh.mobilebanking"},
			{Code: "BoAMobile", Name: "BoA Mobile", AppID: "com.boa.boaMobileBanking"},
			{Code: "DashenBank", Name: "Dashen Bank", AppID: "com.dashen.dashensuperapp"},
		},
		Sentiment: Sentiment{
			Scorer:      ScorerVader,
			LexiconURL:  vader.LexiconURL,
			LexiconFile: vader.LexiconFileName,
		},
	}
}

func (c *Config) applyDefaults() {
	d := getDefaultConfig()
	if c.Sentiment.Scorer == "" {
		c.Sentiment.Scorer = d.Sentiment.Scorer
	}
	if c.Sentiment.LexiconURL == "" {
		c.Sentiment.LexiconURL = d.Sentiment.LexiconURL
	}
	if c.Sentiment.LexiconFile == "" {
		c.Sentiment.LexiconFile = d.Sentiment.LexiconFile
	}
}

// Validate checks bank codes are present and unique and the scorer is known.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Banks))
	for i, b := range c.Banks {
		if b == nil || strings.TrimSpace(b.Code) == "" {
			return fmt.Errorf("bank %d: code required", i)
		}
		k := strings.ToLower(b.Code)
		if seen[k] {
			return fmt.Errorf("duplicate bank code: %s", b.Code)
		}
		seen[k] = true
	}

	if !slices.Contains(Scorers, c.Sentiment.Scorer) {
		return fmt.Errorf("invalid scorer: %s (permitted options: %v)", c.Sentiment.Scorer, Scorers)
	}

	return nil
}

// LexiconPath resolves the lexicon file against dirPath when relative.
func (c *Config) LexiconPath(dirPath string) string {
	if filepath.IsAbs(c.Sentiment.LexiconFile) {
		return c.Sentiment.LexiconFile
	}
	return filepath.Join(dirPath, c.Sentiment.LexiconFile)
}

// ResolveBank returns the configured bank matching the code, name, or app
// ID in any case, or nil.
func (c *Config) ResolveBank(val string) *Bank {
	v := strings.TrimSpace(val)
	if v == "" {
		return nil
	}
	for _, b := range c.Banks {
		if strings.EqualFold(b.Code, v) || strings.EqualFold(b.Name, v) || strings.EqualFold(b.AppID, v) {
			return b
		}
	}
	return nil
}

// BankName returns the display name for code, or code itself when unknown.
func (c *Config) BankName(code string) string {
	if b := c.ResolveBank(code); b != nil && b.Name != "" {
		return b.Name
	}
	return code
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file: %s: %w", configFileName, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if err := os.MkdirAll(dirPath, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create dir: %s: %w", dirPath, err)
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &c, nil
}

// GetOrCreateHomeDir returns the app directory in the current user's home.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to get user home dir: %w", err)
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		err := os.Mkdir(dir, dirMode)
		if err != nil {
			return "", false, fmt.Errorf("failed to create dir: %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
