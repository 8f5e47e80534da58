package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	messageBurst   int
	messageRate    float64
	metrics        bool
	port           int
	prefix         string
	profile        bool
	seed           int64
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.messageRate <= 0 {
		return fmt.Errorf("invalid message rate (must be greater than 0): %v", c.messageRate)
	}
	if c.messageBurst < 1 {
		return fmt.Errorf("invalid message burst (must be at least 1): %d", c.messageBurst)
	}
	if c.sessionTimeout < 0 || (c.sessionTimeout > 0 && c.sessionTimeout < time.Second) {
		return fmt.Errorf("invalid session timeout (must be 0 or at least 1s): %s", c.sessionTimeout)
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
	v.SetEnvPrefix("ICEBREAKERS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "icebreakers",
		Short:         "Icebreaker party games (turns, phases and timers) served as a single webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: ICEBREAKERS_BIND)")
	fs.IntVar(&cfg.messageBurst, "message-burst", 5, "messages a client may send in a burst (env: ICEBREAKERS_MESSAGE_BURST)")
	fs.Float64Var(&cfg.messageRate, "message-rate", 2, "sustained messages per second allowed per client (env: ICEBREAKERS_MESSAGE_RATE)")
	fs.BoolVar(&cfg.metrics, "metrics", false, "serve prometheus metrics at /metrics (env: ICEBREAKERS_METRICS)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: ICEBREAKERS_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: ICEBREAKERS_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: ICEBREAKERS_PROFILE)")
	fs.Int64Var(&cfg.seed, "seed", 0, "seed for random draws, 0 for a time-based seed per session (env: ICEBREAKERS_SEED)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game sessions are ended, 0 to disable (env: ICEBREAKERS_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: ICEBREAKERS_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: ICEBREAKERS_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: ICEBREAKERS_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: ICEBREAKERS_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("icebreakers v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
