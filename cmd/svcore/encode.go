package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"svcore/internal/layout"
	"svcore/internal/types"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [flags] <literal>",
	Short: "Pack a bit literal or integer into storage words",
	Long: `Pack a bit literal (MSB first, characters 0 1 x z) into the storage words of
an integral vector. For unpacked arrays the literal lists the last element
first. With --int the argument is an integer (decimal, or 0x/0b/0o prefixed) stored
in every element.
Without --type or --packed the vector is sized to the literal.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	addVectorFlags(encodeCmd)
	encodeCmd.Flags().Bool("int", false, "treat the argument as an integer")
	encodeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type encodeJSON struct {
	Type    string   `json:"type"`
	Target  string   `json:"target"`
	Words   []string `json:"words"`
	Decoded string   `json:"decoded"`
}

func runEncode(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	asInt, err := cmd.Flags().GetBool("int")
	if err != nil {
		return fmt.Errorf("failed to get int flag: %w", err)
	}

	var (
		states []layout.State
		number int64
	)
	defaultBits := 0
	if asInt {
		number, err = strconv.ParseInt(args[0], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", args[0])
		}
		defaultBits = 64
	} else {
		states, err = layout.ParseBits(args[0])
		if err != nil {
			return err
		}
		defaultBits = len(states)
	}

	vec, target, err := readVector(cmd, defaultBits)
	if err != nil {
		return err
	}
	it := types.NewIntegral("", nil, vec)
	if asInt {
		err = it.AssignInt(target, number)
	} else {
		err = it.AssignBits(target, states)
	}
	if err != nil {
		return err
	}
	decoded, err := it.States()
	if err != nil {
		return err
	}
	shape, _ := it.Layout()

	out := cmd.OutOrStdout()
	words := it.Value().Words
	switch format {
	case "pretty":
		renderWords(out, it.String(), shape, words)
		fmt.Fprintf(out, "decoded %s\n", layout.FormatBits(decoded))
		return nil
	case "json":
		payload := encodeJSON{
			Type:    it.String(),
			Target:  target.Name,
			Words:   make([]string, len(words)),
			Decoded: layout.FormatBits(decoded),
		}
		for i, w := range words {
			payload.Words[i] = hexWord(w, target.WordBits)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func renderWords(out io.Writer, typ string, shape layout.Shape, words []uint64) {
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s on %s: %d word(s)", typ, shape.Target.Name, len(words))))
	for i, w := range words {
		role := "value"
		if shape.Planes == 2 && i%2 == 1 {
			role = "control"
		}
		fmt.Fprintf(out, "  %s %s  %s\n", keyStyle.Render(fmt.Sprintf("[%d]", i)), hexWord(w, shape.Target.WordBits), role)
	}
}

func hexWord(w uint64, wordBits int) string {
	return fmt.Sprintf("0x%0*x", wordBits/4, w)
}
