package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"svcore/internal/layout"
	"svcore/internal/types"
)

// logger is configured from --log-level before any command runs.
var logger = zap.NewNop()

func setupRun(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	level, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	l, err := newLogger(level)
	if err != nil {
		return err
	}
	logger = l
	types.SetLogger(l)

	mode, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	on, err := colorEnabled(mode, os.Stdout)
	if err != nil {
		return err
	}
	color.NoColor = !on
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "off", "none":
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func colorEnabled(mode string, f *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func rootBool(cmd *cobra.Command, name string) (bool, error) {
	v, err := cmd.Root().PersistentFlags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}

func rootInt(cmd *cobra.Command, name string) (int, error) {
	v, err := cmd.Root().PersistentFlags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}

func lookupTarget(name string) (layout.Target, error) {
	if t, ok := layout.TargetByName(name); ok {
		return t, nil
	}
	names := []string{"host"}
	for _, t := range layout.Targets() {
		names = append(names, t.Name)
	}
	return layout.Target{}, fmt.Errorf("unknown target %q (expected %s)", name, strings.Join(names, "|"))
}
