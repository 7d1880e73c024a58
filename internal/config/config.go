// Package config loads the process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/cp25sy5-modjot/blob-ocr/internal/domain"
)

const (
	DefaultModel        = "prebuilt-read"
	DefaultAPIVersion   = "2024-11-30"
	DefaultPollInterval = time.Second
	MinPollInterval     = time.Second // shortest frequency azcore pollers accept
	DefaultGRPCAddr     = ":50051"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// Environment variable names.
const (
	EnvAccountURL   = "AZURE_STORAGE_ACCOUNT_URL"
	EnvContainer    = "AZURE_STORAGE_CONTAINER"
	EnvSASToken     = "AZURE_STORAGE_SAS_TOKEN"
	EnvBlobName     = "AZURE_STORAGE_SINGLE_BLOB"
	EnvDocEndpoint  = "AZURE_DOCINTEL_ENDPOINT"
	EnvDocKey       = "AZURE_DOCINTEL_KEY"
	EnvDocModel     = "AZURE_DOCINTEL_MODEL"
	EnvDocVersion   = "AZURE_DOCINTEL_API_VERSION"
	EnvPollInterval = "AZURE_DOCINTEL_POLL_INTERVAL"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
	EnvGRPCAddr     = "GRPC_ADDR"
)

// Storage addresses the single blob to download.
type Storage struct {
	AccountURL string
	Container  string
	SASToken   string
	BlobName   string
}

// DocIntel holds the Document Intelligence connection settings.
type DocIntel struct {
	Endpoint     string
	Key          string
	Model        string
	APIVersion   string
	PollInterval time.Duration
}

type Log struct {
	Level  string
	Format string
}

// Config is built once at startup and never mutated.
type Config struct {
	Storage  Storage
	DocIntel DocIntel
	Log      Log
	GRPCAddr string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Mode selects which settings are required.
type Mode int

const (
	// ModeRun needs storage and Document Intelligence settings.
	ModeRun Mode = iota
	// ModeServe only needs Document Intelligence settings.
	ModeServe
)

// Load reads the configuration for the one-shot run.
func Load(lookup LookupFunc) (Config, error) {
	return LoadMode(lookup, ModeRun)
}

// FromEnv reads the configuration from the process environment.
func FromEnv(mode Mode) (Config, error) {
	return LoadMode(os.LookupEnv, mode)
}

func LoadMode(lookup LookupFunc, mode Mode) (Config, error) {
	// values are stored as given; blank only matters for presence
	get := func(k string) string {
		v, _ := lookup(k)
		return v
	}
	def := func(k, d string) string {
		if v := get(k); !blank(v) {
			return v
		}
		return d
	}

	cfg := Config{
		Storage: Storage{
			AccountURL: get(EnvAccountURL),
			Container:  get(EnvContainer),
			SASToken:   get(EnvSASToken),
			BlobName:   get(EnvBlobName),
		},
		DocIntel: DocIntel{
			Endpoint:   get(EnvDocEndpoint),
			Key:        get(EnvDocKey),
			Model:      def(EnvDocModel, DefaultModel),
			APIVersion: def(EnvDocVersion, DefaultAPIVersion),
		},
		Log: Log{
			Level:  def(EnvLogLevel, DefaultLogLevel),
			Format: def(EnvLogFormat, DefaultLogFormat),
		},
		GRPCAddr: def(EnvGRPCAddr, DefaultGRPCAddr),
	}

	if mode == ModeRun {
		s := cfg.Storage
		if blank(s.AccountURL) || blank(s.Container) || blank(s.SASToken) || blank(s.BlobName) {
			return Config{}, missing(EnvAccountURL, EnvContainer, EnvSASToken, EnvBlobName)
		}
	}
	if blank(cfg.DocIntel.Endpoint) || blank(cfg.DocIntel.Key) {
		return Config{}, missing(EnvDocEndpoint, EnvDocKey)
	}

	cfg.DocIntel.PollInterval = DefaultPollInterval
	if raw := strings.TrimSpace(get(EnvPollInterval)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < MinPollInterval {
			return Config{}, errors.WithStack(fmt.Errorf("%w: invalid %s %q", domain.ErrConfig, EnvPollInterval, raw))
		}
		cfg.DocIntel.PollInterval = d
	}

	return cfg, nil
}

func blank(v string) bool { return strings.TrimSpace(v) == "" }

func missing(keys ...string) error {
	return errors.WithStack(fmt.Errorf("%w: missing one of: %s", domain.ErrConfig, strings.Join(keys, ", ")))
}
