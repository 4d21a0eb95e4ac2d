package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/saju/internal/domain/ganji"
	"github.com/okian/saju/internal/domain/saju"
)

func calcCmd() *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "calc <birth-date> [birth-time]",
		Short: "Compute the chart for a birth date and optional HH:MM time",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			birthTime := ""
			if len(args) == 2 {
				birthTime = args[1]
			}
			r, err := saju.CalculateString(args[0], birthTime)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			printResult(cmd.OutOrStdout(), r)
			return nil
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "print the chart as JSON")
	return c
}

func printResult(w io.Writer, r saju.Result) {
	hanja := make([]string, 0, 4)
	for _, p := range r.Pillars() {
		hanja = append(hanja, p.Hanja())
	}
	fmt.Fprintf(w, "사주:   %s (%s)\n", r.Saju, strings.Join(hanja, " "))
	fmt.Fprintf(w, "년주:   %s\n", r.YearPillar)
	fmt.Fprintf(w, "월주:   %s\n", r.MonthPillar)
	fmt.Fprintf(w, "일주:   %s\n", r.DayPillar)
	if r.HasHour() {
		fmt.Fprintf(w, "시주:   %s\n", r.HourPillar)
	} else {
		fmt.Fprintln(w, "시주:   -")
	}
	fmt.Fprintf(w, "띠:     %s\n", r.Zodiac)

	counts := make([]string, 0, ganji.ElementCount)
	for _, e := range ganji.Elements {
		counts = append(counts, fmt.Sprintf("%s %d", e.Label(), r.Elements.Get(e)))
	}
	fmt.Fprintf(w, "오행:   %s\n", strings.Join(counts, ", "))
	fmt.Fprintf(w, "강:     %s  약: %s\n", r.Dominant.Label(), r.Weakest.Label())
}
