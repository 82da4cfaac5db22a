package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dada/internal/config"
	"dada/internal/db"
	"dada/internal/trace"
)

// setupTracing builds the tracer described by cfg and attaches it to the
// command context. The returned cleanup dumps a ring, then flushes and
// closes the tracer.
func setupTracing(cmd *cobra.Command, cfg config.Trace) (trace.Tracer, func(), error) {
	level, err := trace.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}

	mode, err := trace.ParseMode(cfg.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: cfg.Output,
		RingSize:   cfg.RingSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	errOut := cmd.ErrOrStderr()
	return tracer, func() {
		// ring-режим ничего не пишет сам, сбрасываем его в stderr
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if dropped := ring.Dropped(); dropped > 0 {
				fmt.Fprintf(errOut, "trace: %d older events dropped (ring_size=%d)\n", dropped, cfg.RingSize)
			}
			if err := ring.Dump(errOut, trace.FormatText); err != nil {
				fmt.Fprintf(errOut, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}, nil
}

// runtimeState reports the query runtime state on every heartbeat.
func runtimeState(database *db.Database) trace.StateFunc {
	return func() map[string]string {
		st := database.Runtime().Stats()
		return map[string]string{
			"revision": strconv.FormatUint(uint64(st.Revision), 10),
			"reads":    strconv.Itoa(st.Reads),
			"writes":   strconv.Itoa(st.PendingWrites),
		}
	}
}
