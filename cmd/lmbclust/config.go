package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/lmbclust"
	"github.com/hupe1980/lmbclust/report"
)

const envPrefix = "LMBCLUST"

// settings is the resolved command configuration. Precedence: flags, then
// LMBCLUST_* environment variables, then the config file, then defaults.
type settings struct {
	Data        string
	Cluster     lmbclust.Config
	Workers     int
	MemoryLimit int64

	Store       string
	OutDir      string
	Prefix      string
	Bucket      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
	UseSSL      bool
	Region      string
	Compression report.Compression
	Codec       string
	IOLimit     int64

	LogLevel    slog.Level
	LogFormat   string
	MetricsAddr string
}

func newFlagSet(out io.Writer) *pflag.FlagSet {
	def := lmbclust.DefaultConfig()

	fs := pflag.NewFlagSet("lmbclust", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: lmbclust --data FILE --records N --features D [flags]\n\n")
		fs.PrintDefaults()
	}

	fs.String("config", "", "config file (yaml, toml or json)")
	fs.String("data", "", "input file, one record per line")
	fs.Int("records", 0, "number of records in the input")
	fs.Int("features", 0, "number of features per record")
	fs.Int("clusters", def.MaxClusters, "maximum number of clusters")
	fs.Duration("time-limit", def.TimeLimit, "wall-clock budget for the whole run")
	fs.Int("workers", 0, "evaluator workers (0 = GOMAXPROCS)")
	fs.Int64("memory-limit", 0, "distance cache memory budget in bytes (0 = unlimited)")

	fs.String("store", "local", "output store: local, minio or s3")
	fs.String("out-dir", ".", "output directory of the local store")
	fs.String("prefix", "", "blob name prefix for the reports")
	fs.String("bucket", "", "bucket of the minio or s3 store")
	fs.String("endpoint", "", "minio endpoint (host:port)")
	fs.String("access-key", "", "minio access key")
	fs.String("secret-key", "", "minio secret key")
	fs.Bool("use-ssl", true, "use TLS for minio")
	fs.String("region", "", "s3 region (default from the AWS config chain)")
	fs.String("compression", "none", "report compression: none, zstd or lz4")
	fs.String("codec", "go-json", "summary codec: json or go-json")
	fs.Int64("io-limit", 0, "report upload limit in bytes per second (0 = unlimited)")

	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-format", "text", "log format: text or json")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :2112)")
	return fs
}

// loadSettings parses args and resolves every setting through viper.
func loadSettings(args []string, out io.Writer) (*settings, error) {
	fs := newFlagSet(out)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	s := &settings{
		Data: v.GetString("data"),
		Cluster: lmbclust.Config{
			MaxClusters: v.GetInt("clusters"),
			Records:     v.GetInt("records"),
			Features:    v.GetInt("features"),
			TimeLimit:   v.GetDuration("time-limit"),
		},
		Workers:     v.GetInt("workers"),
		MemoryLimit: v.GetInt64("memory-limit"),
		Store:       strings.ToLower(v.GetString("store")),
		OutDir:      v.GetString("out-dir"),
		Prefix:      v.GetString("prefix"),
		Bucket:      v.GetString("bucket"),
		Endpoint:    v.GetString("endpoint"),
		AccessKey:   v.GetString("access-key"),
		SecretKey:   v.GetString("secret-key"),
		UseSSL:      v.GetBool("use-ssl"),
		Region:      v.GetString("region"),
		Codec:       v.GetString("codec"),
		IOLimit:     v.GetInt64("io-limit"),
		LogFormat:   strings.ToLower(v.GetString("log-format")),
		MetricsAddr: v.GetString("metrics-addr"),
	}

	var err error
	if s.Compression, err = report.ParseCompression(v.GetString("compression")); err != nil {
		return nil, err
	}
	if err := s.LogLevel.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *settings) validate() error {
	if s.Data == "" {
		return errors.New("--data is required")
	}
	switch s.Store {
	case "local":
	case "minio":
		if s.Endpoint == "" || s.Bucket == "" {
			return errors.New("minio store requires --endpoint and --bucket")
		}
	case "s3":
		if s.Bucket == "" {
			return errors.New("s3 store requires --bucket")
		}
	default:
		return fmt.Errorf("unknown store %q", s.Store)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", s.LogFormat)
	}
	return s.Cluster.Validate()
}
