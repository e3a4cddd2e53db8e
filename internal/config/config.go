// =============================================================================
// Payment Auditor - Configuration Module
// =============================================================================
//
// This module loads the optional auditor.yaml file. Every setting has a
// default, so the auditor runs without any file at all; command-line flags
// are applied on top of whatever is loaded here.
//
// EXAMPLE:
//
//   log_level: info
//   fiscal_year: 2025
//   skip_status: false
//   input:
//     sheet: Pagos
//     csv:
//       delimiter: ";"
//       encoding: Windows-1252
//   mapping:
//     Provider: Razón social
//     Amount: Importe neto
//   report:
//     output_dir: ./reports
//     formats: [text, xlsx]
//     file_name_format: "audit_{source}_{timestamp}_{uuid}"
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/payment-auditor/internal/mapper"
)

// Report formats understood by the report package.
const (
	FormatText = "text"
	FormatXLSX = "xlsx"
	FormatXML  = "xml"
)

// Bounds for fiscal_year. Excel cannot represent dates outside them.
const (
	minFiscalYear = 1900
	maxFiscalYear = 9999
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the auditor settings.
type Config struct {
	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// FiscalYear is the calendar year payment dates must fall in.
	// Default: 2025
	FiscalYear int `yaml:"fiscal_year"`

	// SkipStatus leaves the Status field unmapped, which disables the
	// inactive-provider rule.
	SkipStatus bool `yaml:"skip_status"`

	Input InputSettings `yaml:"input"`

	// Mapping overrides suggested columns. Keys are field names or labels
	// ("Amount" or "Monto"), values are source column labels.
	Mapping map[string]string `yaml:"mapping"`

	Report ReportSettings `yaml:"report"`
}

// InputSettings describes how source files are read.
type InputSettings struct {
	// Sheet is the worksheet to read from xlsx files.
	// Default: the first sheet.
	Sheet string `yaml:"sheet"`

	CSV CSVSettings `yaml:"csv"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields.
	// Common values: "," (comma), ";" (semicolon), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows. Multi-line headers are
	// merged column by column.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row where data begins.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`

	// Encoding is the character encoding of the file.
	// Valid values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// ReportSettings controls where and how reports are written.
type ReportSettings struct {
	// OutputDir is the directory reports are saved to.
	// Default: "./reports"
	OutputDir string `yaml:"output_dir"`

	// Formats lists the report formats to produce.
	// Valid values: "text", "xlsx", "xml"
	// Default: ["text"]
	Formats []string `yaml:"formats"`

	// FileNameFormat is the report file name without extension.
	// Placeholders:
	//   {uuid}      - the run ID
	//   {timestamp} - run time (YYYYMMDD_HHMMSS)
	//   {source}    - base name of the audited file
	// Default: "audit_{source}_{timestamp}"
	FileNameFormat string `yaml:"file_name_format"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file. An empty path returns the
// defaults.
//
// PARAMETERS:
//   - configPath: The path to the configuration file, or "".
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.FiscalYear == 0 {
		cfg.FiscalYear = 2025
	}

	if cfg.Input.CSV.Delimiter == "" {
		cfg.Input.CSV.Delimiter = ","
	}
	if cfg.Input.CSV.HeaderRows == 0 {
		cfg.Input.CSV.HeaderRows = 1
	}
	if cfg.Input.CSV.DataStartRow == 0 {
		cfg.Input.CSV.DataStartRow = cfg.Input.CSV.HeaderRows + 1
	}
	if cfg.Input.CSV.Encoding == "" {
		cfg.Input.CSV.Encoding = "UTF-8"
	}

	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "./reports"
	}
	if len(cfg.Report.Formats) == 0 {
		cfg.Report.Formats = []string{FormatText}
	}
	if cfg.Report.FileNameFormat == "" {
		cfg.Report.FileNameFormat = "audit_{source}_{timestamp}"
	}
}

// Validate checks the configuration for values the auditor cannot use.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if c.FiscalYear < minFiscalYear || c.FiscalYear > maxFiscalYear {
		return fmt.Errorf("fiscal_year %d is outside %d..%d", c.FiscalYear, minFiscalYear, maxFiscalYear)
	}

	if err := c.Input.CSV.validate(); err != nil {
		return fmt.Errorf("input.csv: %w", err)
	}

	if _, err := c.FieldMapping(); err != nil {
		return fmt.Errorf("mapping: %w", err)
	}

	for _, f := range c.Report.Formats {
		if err := ValidateFormat(f); err != nil {
			return fmt.Errorf("report.formats: %w", err)
		}
	}

	return nil
}

// FieldMapping returns the mapping overrides keyed by logical field.
func (c *Config) FieldMapping() (mapper.Mapping, error) {
	m := mapper.Mapping{}
	for field, column := range c.Mapping {
		if err := m.Set(field, column); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ValidateFormat reports whether f names a report format.
func ValidateFormat(f string) error {
	switch strings.ToLower(f) {
	case FormatText, FormatXLSX, FormatXML:
		return nil
	default:
		return fmt.Errorf("unknown report format %q (want %s, %s or %s)", f, FormatText, FormatXLSX, FormatXML)
	}
}

// =============================================================================
// CSV SETTINGS
// =============================================================================

func (s CSVSettings) validate() error {
	if s.HeaderRows < 1 {
		return fmt.Errorf("header_rows must be at least 1")
	}
	if s.DataStartRow <= s.HeaderRows {
		return fmt.Errorf("data_start_row %d must come after the %d header row(s)", s.DataStartRow, s.HeaderRows)
	}
	if _, err := s.Decoder(); err != nil {
		return err
	}
	return nil
}

// Comma returns the delimiter as a rune, accepting the usual names
// ("tab", "pipe", "semicolon").
func (s CSVSettings) Comma() rune {
	switch s.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	default:
		for _, r := range s.Delimiter {
			return r
		}
		return ','
	}
}

// Decoder returns the text encoding named by Encoding. It returns nil
// for UTF-8, which needs no conversion.
func (s CSVSettings) Decoder() (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(s.Encoding, "_", "-")) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", s.Encoding)
	}
}
