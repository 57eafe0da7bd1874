package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-partials/dsp/envelope"
)

func newEnvelopeCommand() *cobra.Command {
	var (
		samples int
		profile float64
		scale   float64
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:         "envelope",
		Short:       "Print the attack envelope model",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples <= 0 {
				return fmt.Errorf("samples must be > 0: %d", samples)
			}

			values := envelope.Scaled(nil, samples, profile, scale)
			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, values)
			}

			rows := make([][]string, len(values))
			for i, v := range values {
				rows[i] = []string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', 6, 64)}
			}
			fmt.Fprintln(out, renderTable(out, []string{"#", "Gain"}, rows, []columnAlignment{alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&samples, "samples", "n", envelope.Segments, "Number of samples")
	cmd.Flags().Float64VarP(&profile, "profile", "p", 0, "Attack profile")
	cmd.Flags().Float64Var(&scale, "level", 1, "Linear level the curve is scaled to")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Write values as a JSON array")
	return cmd
}
