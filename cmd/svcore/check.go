package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"svcore/internal/diag"
	"svcore/internal/diagfmt"
	"svcore/internal/driver"
	"svcore/internal/source"
)

// errDiagnostics is returned once error diagnostics have been printed.
var errDiagnostics = errors.New("declaration files contain errors")

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.toml|directory>...",
	Short: "Check declaration files",
	Long: `Load declaration files (directories are searched for *.toml) in parallel,
build a type catalog per file and report every problem found.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().String("emit", "", "write a msgpack catalog snapshot per clean file into this directory")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("target", "", "override the [target] table of every file (host, lp64, ilp32, lp16, avr or an alias)")
	checkCmd.Flags().Bool("no-warnings", false, "drop warnings and infos from the output")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type checkFlags struct {
	format     string
	ui         uiMode
	emit       string
	jobs       int
	target     string
	noWarnings bool
	withNotes  bool
	fullPath   bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.emit, err = flags.GetString("emit"); err != nil {
		return f, fmt.Errorf("failed to get emit flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.target, err = flags.GetString("target"); err != nil {
		return f, fmt.Errorf("failed to get target flag: %w", err)
	}
	if f.noWarnings, err = flags.GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	return f, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := rootInt(cmd, "max-diagnostics")
	if err != nil {
		return err
	}
	quiet, err := rootBool(cmd, "quiet")
	if err != nil {
		return err
	}
	showTimings, err := rootBool(cmd, "timings")
	if err != nil {
		return err
	}

	opts := driver.Options{
		Jobs:           flags.jobs,
		MaxDiagnostics: maxDiagnostics,
		Logger:         logger,
		SnapshotDir:    flags.emit,
		Timings:        showTimings,
	}
	if flags.target != "" {
		target, err := lookupTarget(flags.target)
		if err != nil {
			return err
		}
		opts.Target = &target
	}

	session, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := session.Stop(); stopErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", stopErr)
		}
	}()

	var results []driver.FileResult
	if !quiet && flags.format == "pretty" && shouldUseTUI(flags.ui) {
		files, listErr := driver.ListFiles(args)
		if listErr != nil {
			return listErr
		}
		results, err = runCheckWithUI(cmd.Context(), "checking declarations", files, args, opts)
	} else {
		results, err = driver.CheckFiles(cmd.Context(), args, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if flags.noWarnings {
		for _, r := range results {
			r.Bag.Filter(diag.SevError)
		}
	}

	// setupRun has already resolved --color
	useColor := !color.NoColor
	pathMode := diagfmt.PathModeAuto
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	if err := renderCheck(out, results, flags, pathMode, useColor, maxDiagnostics); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if !quiet && flags.format == "pretty" {
		printCheckSummary(out, results, failed)
	}
	if failed > 0 {
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

func renderCheck(out io.Writer, results []driver.FileResult, flags checkFlags, pathMode diagfmt.PathMode, useColor bool, maxDiagnostics int) error {
	switch flags.format {
	case "short":
		merged := driver.Merge(results, maxDiagnostics)
		if s := diagfmt.Short(merged.Items(), flags.withNotes); s != "" {
			fmt.Fprintln(out, s)
		}
	case "json":
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		jsonOpts := diagfmt.JSONOpts{PathMode: pathMode, Max: maxDiagnostics, IncludeNotes: flags.withNotes}
		for _, r := range results {
			output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Bag, jsonOpts)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	default:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     useColor,
			PathMode:  pathMode,
			ShowNotes: flags.withNotes,
			Context:   true,
		}
		first := true
		for _, r := range results {
			if r.Bag.Len() == 0 {
				continue
			}
			if !first {
				fmt.Fprintln(out)
			}
			first = false
			fmt.Fprintf(out, "== %s ==\n", r.Path)
			var fs *source.FileSet
			if r.Decl != nil {
				fs = r.Decl.Files
			}
			diagfmt.Pretty(out, r.Bag, fs, prettyOpts)
		}
	}
	return nil
}

func printCheckSummary(out io.Writer, results []driver.FileResult, failed int) {
	snapshots := 0
	for _, r := range results {
		if r.Snapshot != "" {
			snapshots++
		}
	}
	fmt.Fprintf(out, "checked %d file(s), %d with errors", len(results), failed)
	if snapshots > 0 {
		fmt.Fprintf(out, ", %d snapshot(s) written", snapshots)
	}
	fmt.Fprintln(out)
}
