package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"svcore/internal/decl"
	"svcore/internal/diagfmt"
	"svcore/internal/types"
)

// errBelowRequired is returned when --require is not met.
var errBelowRequired = errors.New("classification below the required level")

var classifyCmd = &cobra.Command{
	Use:   "classify [flags] <decls.toml> <dst> <src>",
	Short: "Classify how a value of type src meets type dst",
	Long: `Load a declaration file and grade the relation between two of its types
(builtin keywords such as int or logic are accepted too). The result is one of
matching, equivalent, assignment_compatible, cast_compatible or non_equivalent.`,
	Args: cobra.ExactArgs(3),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("require", "", "exit with status 1 unless the relation is at least this strict")
	classifyCmd.Flags().String("target", "", "override the [target] table (host, lp64, ilp32, lp16, avr or an alias)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	requireName, err := cmd.Flags().GetString("require")
	if err != nil {
		return fmt.Errorf("failed to get require flag: %w", err)
	}
	var (
		required    types.Level
		hasRequired bool
	)
	if requireName != "" {
		if required, hasRequired = types.ParseLevel(requireName); !hasRequired {
			return fmt.Errorf("unknown level %q", requireName)
		}
	}
	targetName, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	maxDiagnostics, err := rootInt(cmd, "max-diagnostics")
	if err != nil {
		return err
	}

	opts := decl.Options{MaxDiagnostics: maxDiagnostics, Logger: logger}
	if targetName != "" {
		target, err := lookupTarget(targetName)
		if err != nil {
			return err
		}
		opts.Target = &target
	}
	res, err := decl.Load(args[0], opts)
	if err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		fmt.Fprintln(cmd.ErrOrStderr(), diagfmt.Short(res.Bag.Items(), false))
	}
	if res.Catalog == nil {
		return fmt.Errorf("%s: no catalog could be built", args[0])
	}

	dst, err := res.Catalog.LookupName(args[1])
	if err != nil {
		return err
	}
	src, err := res.Catalog.LookupName(args[2])
	if err != nil {
		return err
	}
	level := types.Classify(dst, src)
	logger.Debug("classified",
		zap.String("dst", dst.String()),
		zap.String("src", src.String()),
		zap.Stringer("level", level))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <- %s: %s\n", args[1], args[2], level)
	if hasRequired && !level.AtLeast(required) {
		cmd.SilenceErrors = true
		fmt.Fprintf(cmd.ErrOrStderr(), "required %s\n", required)
		return errBelowRequired
	}
	return nil
}
