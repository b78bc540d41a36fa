package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"svcore/internal/layout"
	"svcore/internal/types"
)

// addVectorFlags registers the flags describing one integral vector.
func addVectorFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "start from an integral keyword (bit|logic|reg|byte|shortint|int|longint|integer|time)")
	cmd.Flags().String("packed", "", "packed dimensions, outermost first, e.g. \"7:0,3:0\" or \"[7:0][3:0]\"")
	cmd.Flags().String("unpacked", "", "unpacked dimensions, e.g. \"0:3\"")
	cmd.Flags().Bool("four-state", false, "four-state (logic) storage")
	cmd.Flags().Bool("signed", false, "signed vector")
	cmd.Flags().Bool("unsized", false, "mark the vector unsized")
	cmd.Flags().String("target", "host", "storage target (host, lp64, ilp32, lp16, avr or an alias)")
}

// readVector builds the vector described by the flags of cmd. When neither
// --type nor --packed is given, defaultBits (if positive) sizes a single
// packed dimension [defaultBits-1:0].
func readVector(cmd *cobra.Command, defaultBits int) (layout.Vector, layout.Target, error) {
	flags := cmd.Flags()
	targetName, err := flags.GetString("target")
	if err != nil {
		return layout.Vector{}, layout.Target{}, fmt.Errorf("failed to get target flag: %w", err)
	}
	target, err := lookupTarget(targetName)
	if err != nil {
		return layout.Vector{}, layout.Target{}, err
	}

	vec := layout.Vector{Sized: true}
	keyword, _ := flags.GetString("type")
	if keyword != "" {
		it, ok := types.BuiltinIntegral(keyword)
		if !ok {
			return layout.Vector{}, layout.Target{}, fmt.Errorf("unknown integral keyword %q", keyword)
		}
		vec = it.Vector()
	}
	if flags.Changed("four-state") {
		vec.FourState, _ = flags.GetBool("four-state")
	}
	if flags.Changed("signed") {
		vec.Signed, _ = flags.GetBool("signed")
	}
	if unsized, _ := flags.GetBool("unsized"); unsized {
		vec.Sized = false
	}

	packed, _ := flags.GetString("packed")
	switch {
	case packed != "":
		dims, err := parseRanges(packed)
		if err != nil {
			return layout.Vector{}, layout.Target{}, fmt.Errorf("--packed: %w", err)
		}
		vec.Packed = layout.Ranges(dims...)
	case keyword == "" && defaultBits > 0:
		vec.Packed = layout.Ranges(layout.Dim(int64(defaultBits-1), 0))
	}

	unpacked, _ := flags.GetString("unpacked")
	if unpacked != "" {
		dims, err := parseRanges(unpacked)
		if err != nil {
			return layout.Vector{}, layout.Target{}, fmt.Errorf("--unpacked: %w", err)
		}
		vec.Unpacked = layout.Ranges(dims...)
	}
	return vec, target, nil
}

// parseRanges reads "7:0,3:0" or "[7:0][3:0]". A single number n stands for
// the C-style size [0:n-1].
func parseRanges(s string) ([]layout.Dimension, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		s = strings.ReplaceAll(s, "][", ",")
	}
	var dims []layout.Dimension
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty dimension in %q", s)
		}
		left, right, isRange := strings.Cut(part, ":")
		if !isRange {
			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid size %q", part)
			}
			dims = append(dims, layout.Dim(0, n-1))
			continue
		}
		l, err := strconv.ParseInt(strings.TrimSpace(left), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bound %q", left)
		}
		r, err := strconv.ParseInt(strings.TrimSpace(right), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bound %q", right)
		}
		dims = append(dims, layout.Dim(l, r))
	}
	return dims, nil
}
