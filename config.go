package main

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// admin pages live in a single top-level path segment
var adminPathPattern = regexp.MustCompile(`^/[A-Za-z0-9_-]+$`)

var reservedPaths = []string{"/assets", "/favicons", "/healthz", "/pprof", "/robots.txt", "/room", "/stats", "/version", "/ws"}

// fallbackEnv lists unprefixed variables honoured in addition to DRUMROLL_*.
var fallbackEnv = map[string]string{
	"admin-password": "ADMIN_PASSWORD",
	"port":           "PORT",
}

type Config struct {
	adminPassword  string
	adminPath      string
	allowedOrigins []string
	bind           string
	logFile        string
	logMaxSize     int
	port           int
	prefix         string
	profile        bool
	revealDelay    time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	logger *zap.SugaredLogger
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if !adminPathPattern.MatchString(c.adminPath) {
		return fmt.Errorf("invalid admin path (must be a single segment like /secret-admin): %q", c.adminPath)
	}
	if slices.Contains(reservedPaths, c.adminPath) {
		return fmt.Errorf("admin path %q is already in use", c.adminPath)
	}
	if c.revealDelay < 0 {
		return fmt.Errorf("invalid reveal delay (must not be negative): %s", c.revealDelay)
	}
	if c.logMaxSize < 1 {
		return fmt.Errorf("invalid log size (must be at least 1 MB): %d", c.logMaxSize)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DRUMROLL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "drumroll",
		Short:         "Party rooms with live cursors and a drumroll team reveal.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}

			logger, closeLogger := newLogger(cfg)
			defer closeLogger()
			cfg.logger = logger

			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.adminPassword, "admin-password", "", "password for watching rooms and rigging teams; empty disables both (env: DRUMROLL_ADMIN_PASSWORD, ADMIN_PASSWORD)")
	fs.StringVar(&cfg.adminPath, "admin-path", "/secret-admin", "path of the admin page (env: DRUMROLL_ADMIN_PATH)")
	fs.StringSliceVar(&cfg.allowedOrigins, "allowed-origins", nil, "origins allowed to connect, comma-separated; empty allows any (env: DRUMROLL_ALLOWED_ORIGINS)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: DRUMROLL_BIND)")
	fs.StringVar(&cfg.logFile, "log-file", "", "also write logs to this file, rotated by size (env: DRUMROLL_LOG_FILE)")
	fs.IntVar(&cfg.logMaxSize, "log-max-size", 10, "size in MB at which the log file is rotated (env: DRUMROLL_LOG_MAX_SIZE)")
	fs.IntVarP(&cfg.port, "port", "p", 3000, "port to listen on (env: DRUMROLL_PORT, PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: DRUMROLL_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: DRUMROLL_PROFILE)")
	fs.DurationVar(&cfg.revealDelay, "reveal-delay", 6*time.Second, "drumroll length before teams are revealed (env: DRUMROLL_REVEAL_DELAY)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: DRUMROLL_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: DRUMROLL_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: DRUMROLL_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: DRUMROLL_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if fallback, ok := fallbackEnv[f.Name]; ok {
			_ = v.BindEnv(f.Name, "DRUMROLL_"+strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), fallback)
		} else {
			_ = v.BindEnv(f.Name)
		}
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("drumroll v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
