package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-pdf-layout/internal/layout"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Upper bound for the page worker pool
	MaxWorkers = layout.MaxWorkers

	// The reconstruction cache is opt-in
	DefaultCacheSize = 0
)

// Config holds all configuration for the PDF layout server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// PDF configuration
	PDFDirectory string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes

	// Layout reconstruction
	LineTolerance    float64
	ParagraphGap     float64
	HeadingRatio     float64
	HeadingMaxLength int
	MinDisplaySize   int
	Workers          int
	Sanitize         bool // pass editable HTML through the allow-list sanitizer
	CacheSize        int  // reconstructed documents kept in memory, 0 disables
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:             ModeStdio, // Default to stdio mode for MCP compatibility
		Host:             DefaultHost,
		Port:             DefaultPort,
		PDFDirectory:     currentDir,
		Version:          "1.0.0",
		ServerName:       "mcp-pdf-layout",
		LogLevel:         DefaultLogLevel,
		MaxFileSize:      DefaultMaxFileSize,
		LineTolerance:    layout.DefaultLineTolerance,
		ParagraphGap:     layout.DefaultParagraphGap,
		HeadingRatio:     layout.DefaultHeadingSizeRatio,
		HeadingMaxLength: layout.DefaultHeadingMaxLength,
		MinDisplaySize:   layout.DefaultMinDisplaySize,
		Workers:          1,
		CacheSize:        DefaultCacheSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("MCP_PDF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("line-tolerance", cfg.LineTolerance)
	viper.SetDefault("paragraph-gap", cfg.ParagraphGap)
	viper.SetDefault("heading-ratio", cfg.HeadingRatio)
	viper.SetDefault("heading-max-length", cfg.HeadingMaxLength)
	viper.SetDefault("min-display-size", cfg.MinDisplaySize)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("sanitize", cfg.Sanitize)
	viper.SetDefault("cache-size", cfg.CacheSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing PDF files")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Float64("line-tolerance", cfg.LineTolerance, "Line clustering tolerance as a multiple of the median font size")
	pflag.Float64("paragraph-gap", cfg.ParagraphGap, "Vertical gap, as a multiple of the median font size, that starts a paragraph")
	pflag.Float64("heading-ratio", cfg.HeadingRatio, "Font size ratio to the median at which a paragraph becomes a heading")
	pflag.Int("heading-max-length", cfg.HeadingMaxLength, "Headings must be shorter than this many characters")
	pflag.Int("min-display-size", cfg.MinDisplaySize, "Minimum rendered font size in pixels")
	pflag.Int("workers", cfg.Workers, "Pages reconstructed concurrently per document")
	pflag.Bool("sanitize", cfg.Sanitize, "Sanitize editable HTML with an allow-list policy")
	pflag.Int("cache-size", cfg.CacheSize, "Reconstructed documents kept in memory (0 disables the cache)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	for _, key := range layoutKeys {
		_ = viper.BindPFlag(key, pflag.Lookup(key))
	}
}

var layoutKeys = []string{
	"line-tolerance", "paragraph-gap", "heading-ratio", "heading-max-length",
	"min-display-size", "workers", "sanitize", "cache-size",
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP PDF Layout - rebuilds PDF pages as editable HTML, overlay JSON or Markdown\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs                     "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/pdfs       # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_MODE        Server mode\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_DIR         PDF directory\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_MAXFILESIZE Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_WORKERS     Page worker pool size\n")
		fmt.Fprintf(os.Stderr, "  MCP_PDF_SANITIZE    Sanitize editable HTML\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.LineTolerance = viper.GetFloat64("line-tolerance")
	cfg.ParagraphGap = viper.GetFloat64("paragraph-gap")
	cfg.HeadingRatio = viper.GetFloat64("heading-ratio")
	cfg.HeadingMaxLength = viper.GetInt("heading-max-length")
	cfg.MinDisplaySize = viper.GetInt("min-display-size")
	cfg.Workers = viper.GetInt("workers")
	cfg.Sanitize = viper.GetBool("sanitize")
	cfg.CacheSize = viper.GetInt("cache-size")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate PDF directory
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// A missing directory is allowed so clients can pass placeholder paths
	if info, err := os.Stat(c.PDFDirectory); err == nil && !info.IsDir() {
		return fmt.Errorf("PDF directory %s is not a directory", c.PDFDirectory)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.CacheSize < 0 {
		return errors.New("cache size cannot be negative")
	}
	if err := c.LayoutConfig().Validate(); err != nil {
		return fmt.Errorf("invalid layout settings: %w", err)
	}

	return nil
}

// LayoutConfig derives the reconstruction thresholds
func (c *Config) LayoutConfig() layout.Config {
	lc := layout.DefaultConfig()
	lc.LineTolerance = c.LineTolerance
	lc.ParagraphGap = c.ParagraphGap
	lc.HeadingSizeRatio = c.HeadingRatio
	lc.HeadingMaxLength = c.HeadingMaxLength
	lc.MinDisplaySize = c.MinDisplaySize
	lc.Workers = c.Workers
	return lc
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, LogLevel: %s, MaxFileSize: %d, Workers: %d}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.LogLevel, c.MaxFileSize, c.Workers)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
