package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"svcore/internal/layout"
	"svcore/internal/types"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags]",
	Short: "Show the storage layout of an integral vector",
	Long: `Compute how one value of an integral vector is laid out in storage words:
$bits, the row and element sizes and the total word count for the target.`,
	Args: cobra.NoArgs,
	RunE: runLayout,
}

func init() {
	addVectorFlags(layoutCmd)
	layoutCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type layoutJSON struct {
	Type         string `json:"type"`
	Target       string `json:"target"`
	WordBits     int    `json:"word_bits"`
	FourState    bool   `json:"four_state"`
	Signed       bool   `json:"signed"`
	Bits         uint64 `json:"bits"`
	Planes       int    `json:"planes"`
	RowBits      uint64 `json:"row_bits"`
	RowWords     int    `json:"row_words"`
	Rows         int    `json:"rows"`
	ElementBits  uint64 `json:"element_bits"`
	ElementWords int    `json:"element_words"`
	Elements     int    `json:"elements"`
	TotalWords   int    `json:"total_words"`
	Bytes        int    `json:"bytes"`
}

func runLayout(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	vec, target, err := readVector(cmd, 0)
	if err != nil {
		return err
	}
	engine := layout.New(target)
	shape, err := engine.LayoutOf(vec)
	if err != nil {
		return err
	}
	size, err := engine.SizeOf(vec)
	if err != nil {
		return err
	}
	info := layoutJSON{
		Type:         types.NewIntegral("", nil, vec).String(),
		Target:       target.Name,
		WordBits:     target.WordBits,
		FourState:    shape.FourState,
		Signed:       shape.Signed,
		Bits:         shape.Bits,
		Planes:       shape.Planes,
		RowBits:      shape.RowBits,
		RowWords:     shape.RowWords,
		Rows:         shape.Rows,
		ElementBits:  shape.ElementBits,
		ElementWords: shape.ElementWords,
		Elements:     shape.Elements,
		TotalWords:   shape.TotalWords,
		Bytes:        size,
	}
	logger.Debug("layout computed", zap.String("type", info.Type), zap.Int("words", info.TotalWords))

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		renderLayoutPretty(out, info)
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func renderLayoutPretty(out io.Writer, info layoutJSON) {
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s on %s (%d-bit words)", info.Type, info.Target, info.WordBits)))
	rows := [][2]string{
		{"bits", fmt.Sprint(info.Bits)},
		{"planes", fmt.Sprint(info.Planes)},
		{"row", fmt.Sprintf("%d bits in %d word(s)", info.RowBits, info.RowWords)},
		{"rows", fmt.Sprint(info.Rows)},
		{"element", fmt.Sprintf("%d bits in %d word(s)", info.ElementBits, info.ElementWords)},
		{"elements", fmt.Sprint(info.Elements)},
		{"total", fmt.Sprintf("%d word(s), %d bytes", info.TotalWords, info.Bytes)},
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		key := keyStyle.Render(r[0] + strings.Repeat(" ", width-len(r[0])))
		fmt.Fprintf(out, "  %s  %s\n", key, r[1])
	}
}
