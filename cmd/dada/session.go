package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dada/internal/config"
	"dada/internal/db"
	"dada/internal/observ"
	"dada/internal/prof"
	"dada/internal/trace"
)

// session bundles what every command needs: resolved settings, the
// database, the tracer cleanup and the phase timer.
type session struct {
	cfg   config.Config
	color bool
	db    *db.Database
	reg   *prometheus.Registry
	timer *observ.Timer

	timings     bool
	metricsPath string
	profile     *prof.Session
	cleanup     func()
	errOut      io.Writer
}

func openSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Root().PersistentFlags()

	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	color, err := config.ParseColor(cfg.Output.Color)
	if err != nil {
		return nil, err
	}
	heartbeat, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	metricsPath, err := flags.GetString("metrics")
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics flag: %w", err)
	}

	var profOpts prof.Options
	for name, dst := range map[string]*string{"cpuprofile": &profOpts.CPU, "memprofile": &profOpts.Mem, "exec-trace": &profOpts.Trace} {
		if *dst, err = flags.GetString(name); err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}

	tracer, cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return nil, err
	}
	profile, err := prof.Start(profOpts)
	if err != nil {
		cleanup()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	s := &session{
		cfg:   cfg,
		color: color.Enabled(isTerminal(cmd.OutOrStdout())),
		reg:   reg,
		db: db.New(db.Options{
			Registerer:     reg,
			Jobs:           cfg.Session.Jobs,
			MaxDiagnostics: cfg.Session.MaxDiagnostics,
		}),
		timer:       observ.NewTimer(),
		timings:     timings,
		metricsPath: metricsPath,
		profile:     profile,
		errOut:      cmd.ErrOrStderr(),
	}
	hb := trace.StartHeartbeat(tracer, heartbeat, runtimeState(s.db))
	s.cleanup = func() {
		hb.Stop()
		cleanup()
	}
	return s, nil
}

// close stops profiling, reports timings and metrics, then shuts the tracer down.
func (s *session) close() {
	if err := s.profile.Stop(); err != nil {
		fmt.Fprintf(s.errOut, "profile: %v\n", err)
	}
	if s.timings {
		fmt.Fprint(s.errOut, s.timer.Summary())
	}
	if s.metricsPath != "" {
		if err := prometheus.WriteToTextfile(s.metricsPath, s.reg); err != nil {
			fmt.Fprintf(s.errOut, "metrics: %v\n", err)
		}
	}
	s.cleanup()
}

// loadConfig reads dada.toml and applies the flags the user actually set.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return config.Config{}, wdErr
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return config.Config{}, err
	}

	var o config.Overrides
	o.Jobs = changedInt(flags, "jobs")
	o.MaxDiagnostics = changedInt(flags, "max-diagnostics")
	o.Color = changedString(flags, "color")
	o.TraceLevel = changedString(flags, "trace-level")
	o.TraceMode = changedString(flags, "trace-mode")
	o.TraceOutput = changedString(flags, "trace")
	// --trace без уровня включает фазы
	if o.TraceOutput != nil && o.TraceLevel == nil && cfg.Trace.Level == "off" {
		phase := "phase"
		o.TraceLevel = &phase
		if o.TraceMode == nil {
			stream := "stream"
			o.TraceMode = &stream
		}
	}
	return cfg.With(o)
}

func changedInt(flags *pflag.FlagSet, name string) *int {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

func changedString(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return nil
	}
	return &v
}
