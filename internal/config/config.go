// Package config defines the data structures related to configuration and
// includes functions for loading and checking a worksheet.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
	"github.com/iwvelando/gpa-calculator/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds a worksheet plus the settings for gpa-calculator.
type Configuration struct {
	Scale      string        `yaml:"scale"`
	Semester   Semester      `yaml:"semester,omitempty"`
	Cumulative Cumulative    `yaml:"cumulative,omitempty"`
	Logging    LoggingConfig `yaml:"logging,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty"`
	Draft      DraftConfig   `yaml:"draft,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
	Color  bool   `yaml:"color,omitempty"`
}

// DraftConfig selects where drafts are persisted.
type DraftConfig struct {
	Backend string `yaml:"backend,omitempty"` // memory, file, sqlite
	Path    string `yaml:"path,omitempty"`
}

// Semester is the course list for a single-term GPA.
type Semester struct {
	Name    string   `yaml:"name,omitempty"`
	Courses []Course `yaml:"courses,omitempty"`
}

// Course is one graded course.
type Course struct {
	Name    string  `yaml:"name"`
	Grade   string  `yaml:"grade"`
	Credits float64 `yaml:"credits"`
}

// Cumulative is the list of summarized terms for a CGPA.
type Cumulative struct {
	Semesters []Period `yaml:"semesters,omitempty"`
}

// Period is one summarized term.
type Period struct {
	Name    string  `yaml:"name"`
	GPA     float64 `yaml:"gpa"`
	Credits float64 `yaml:"credits"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("scale", scale.DefaultID)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.color", false)
	v.SetDefault("draft.backend", constants.DraftBackendFile)
	v.SetDefault("draft.path", "")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file next to the configuration is loaded into
// the environment first when present; GPA_* variables override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		return &Configuration{Scale: scale.DefaultID}
	}
	return conf
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Scale = strings.TrimSpace(configuration.Scale)
	return &configuration, nil
}

// loadDotEnv loads path into the environment, ignoring a missing file.
// Variables that are already set keep their values.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ResolveScale returns the configured scale from the built-in catalog.
func (c *Configuration) ResolveScale() (scale.Scale, error) {
	return scale.GetScale(c.Scale)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var courses []validation.CourseConfig
	for _, course := range c.Semester.Courses {
		courses = append(courses, validation.CourseConfig{
			Name:    course.Name,
			Grade:   course.Grade,
			Credits: course.Credits,
		})
	}

	var periods []validation.PeriodConfig
	for _, period := range c.Cumulative.Semesters {
		periods = append(periods, validation.PeriodConfig{
			Name:    period.Name,
			GPA:     period.GPA,
			Credits: period.Credits,
		})
	}

	validator := validation.WorksheetValidator{
		ScaleID:  c.Scale,
		Semester: validation.SemesterConfig{Name: c.Semester.Name, Courses: courses},
		Periods:  periods,
	}
	warnings := validator.ValidateAll()

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	return warnings
}
