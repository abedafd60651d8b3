// internal/config/config.go
//
// This package handles configuration and the .livesite directory structure.
// Every project that exports scoreboard data gets a .livesite/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// LivesiteDir is the name of the directory we create in each project
	LivesiteDir = ".livesite"

	defaultOutputDir      = "."
	defaultOutputFormat   = "json"
	defaultTimeoutSeconds = 15
	defaultTitle          = "LiveSite"
	defaultPhoto          = "/images/default-photo-regional.png"
	defaultFrontPageHTML  = "<h1 class=\"page-header\">LiveSite</h1>\n\n<p>Live scoreboard</p>\n"
)

const defaultProjectConfigYAML = `# livesite project configuration
version: 1

# Judge API. base_url points at the API root (for DOMjudge: https://host/api/v4).
judge:
  base_url: ""
  contest_id: ""
  strict: false
  timeout_seconds: 15

# Values substituted into the generated scoreboard configuration.
scoreboard:
  title: LiveSite
  front_page_html: |
    <h1 class="page-header">LiveSite</h1>

    <p>Live scoreboard</p>
  default_photo: /images/default-photo-regional.png
  # default_country: Unknown
  # problem_link: https://judge.example.org/problems

output:
  dir: .
  format: json
`

// JudgeConfig describes how to reach the judge API.
type JudgeConfig struct {
	BaseURL        string `yaml:"base_url"`
	ContestID      string `yaml:"contest_id"`
	Strict         bool   `yaml:"strict"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ScoreboardConfig holds presentation values for the generated documents.
type ScoreboardConfig struct {
	Title          string `yaml:"title"`
	FrontPageHTML  string `yaml:"front_page_html"`
	ProblemLink    string `yaml:"problem_link,omitempty"`
	DefaultPhoto   string `yaml:"default_photo"`
	DefaultCountry string `yaml:"default_country,omitempty"`
}

// OutputConfig controls where and how documents are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// ProjectConfig models .livesite/config.yaml.
type ProjectConfig struct {
	Version    int              `yaml:"version"`
	Judge      JudgeConfig      `yaml:"judge"`
	Scoreboard ScoreboardConfig `yaml:"scoreboard"`
	Output     OutputConfig     `yaml:"output"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the command runs against
	ProjectDir string

	// LivesiteProjectDir is ProjectDir/.livesite
	LivesiteProjectDir string

	Project ProjectConfig
}

// InitLivesiteDir creates the .livesite directory structure in the given project directory.
//
// Structure created:
// .livesite/
// ├── config.yaml
// └── logs/
func InitLivesiteDir(projectDir string) error {
	livesiteDir := filepath.Join(projectDir, LivesiteDir)
	if err := os.MkdirAll(filepath.Join(livesiteDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(livesiteDir, "config.yaml"))
}

// NewConfig loads .livesite/config.yaml, then the project's .env file, then
// LIVESITE_* environment overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		LivesiteProjectDir: filepath.Join(projectDir, LivesiteDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := loadDotEnv(filepath.Join(projectDir, ".env")); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.LivesiteProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.LivesiteProjectDir, "config.yaml")
}

// OutputDir returns the resolved directory for generated documents.
func (c *Config) OutputDir() string {
	return resolvePath(c.ProjectDir, c.Project.Output.Dir)
}

// Set applies a single key=value override, as passed with -set on the command line.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "base_url", "judge.base_url":
		c.Project.Judge.BaseURL = value
	case "contest_id", "judge.contest_id":
		c.Project.Judge.ContestID = value
	case "strict", "judge.strict":
		strict, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		c.Project.Judge.Strict = strict
	case "timeout_seconds", "judge.timeout_seconds":
		seconds, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		c.Project.Judge.TimeoutSeconds = seconds
	case "title", "scoreboard.title":
		c.Project.Scoreboard.Title = value
	case "front_page_html", "scoreboard.front_page_html":
		c.Project.Scoreboard.FrontPageHTML = value
	case "problem_link", "scoreboard.problem_link":
		c.Project.Scoreboard.ProblemLink = value
	case "default_photo", "scoreboard.default_photo":
		c.Project.Scoreboard.DefaultPhoto = value
	case "default_country", "scoreboard.default_country":
		c.Project.Scoreboard.DefaultCountry = value
	case "dir", "output.dir":
		c.Project.Output.Dir = value
	case "format", "output.format":
		c.Project.Output.Format = value
	default:
		return fmt.Errorf("config: unknown setting %q", key)
	}
	return c.finalize()
}

func (c *Config) finalize() error {
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

// applyEnvOverrides lets deployments point at a judge without editing config.yaml.
func (c *Config) applyEnvOverrides() {
	if value := strings.TrimSpace(os.Getenv("LIVESITE_JUDGE_URL")); value != "" {
		c.Project.Judge.BaseURL = value
	}
	if value := strings.TrimSpace(os.Getenv("LIVESITE_CONTEST_ID")); value != "" {
		c.Project.Judge.ContestID = value
	}
	if value := strings.TrimSpace(os.Getenv("LIVESITE_OUTPUT_DIR")); value != "" {
		c.Project.Output.Dir = value
	}
	if value := strings.TrimSpace(os.Getenv("LIVESITE_OUTPUT_FORMAT")); value != "" {
		c.Project.Output.Format = value
	}
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Judge: JudgeConfig{
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Scoreboard: ScoreboardConfig{
			Title:         defaultTitle,
			FrontPageHTML: defaultFrontPageHTML,
			DefaultPhoto:  defaultPhoto,
		},
		Output: OutputConfig{
			Dir:    defaultOutputDir,
			Format: defaultOutputFormat,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Judge.TimeoutSeconds <= 0 {
		pc.Judge.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(pc.Scoreboard.Title) == "" {
		pc.Scoreboard.Title = defaultTitle
	}
	if strings.TrimSpace(pc.Scoreboard.FrontPageHTML) == "" {
		pc.Scoreboard.FrontPageHTML = defaultFrontPageHTML
	}
	if strings.TrimSpace(pc.Scoreboard.DefaultPhoto) == "" {
		pc.Scoreboard.DefaultPhoto = defaultPhoto
	}
	if strings.TrimSpace(pc.Output.Dir) == "" {
		pc.Output.Dir = defaultOutputDir
	}
	if strings.TrimSpace(pc.Output.Format) == "" {
		pc.Output.Format = defaultOutputFormat
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Judge.BaseURL = strings.TrimRight(strings.TrimSpace(pc.Judge.BaseURL), "/")
	pc.Judge.ContestID = strings.TrimSpace(pc.Judge.ContestID)
	pc.Scoreboard.Title = strings.TrimSpace(pc.Scoreboard.Title)
	pc.Scoreboard.ProblemLink = strings.TrimSpace(pc.Scoreboard.ProblemLink)
	pc.Scoreboard.DefaultPhoto = strings.TrimSpace(pc.Scoreboard.DefaultPhoto)
	pc.Scoreboard.DefaultCountry = strings.TrimSpace(pc.Scoreboard.DefaultCountry)
	pc.Output.Dir = strings.TrimSpace(pc.Output.Dir)
	pc.Output.Format = normalizeFormat(pc.Output.Format)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("output.format must be 'json' or 'yaml'")
	}
	if url := pc.Judge.BaseURL; url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("judge.base_url must start with http:// or https://")
	}
	return nil
}

func normalizeFormat(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "yml" {
		return "yaml"
	}
	return value
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

// loadDotEnv reads KEY=value pairs without overriding variables already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
