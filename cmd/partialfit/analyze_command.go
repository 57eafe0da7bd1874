package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-partials/partials"
	"github.com/cwbudde/algo-partials/stats/level"
)

type partialView struct {
	Rank            int     `json:"rank"`
	MidFreq         float64 `json:"mid_freq"`
	Ratio           float64 `json:"ratio"`
	LowestFreq      float64 `json:"lowest_freq"`
	HighestFreq     float64 `json:"highest_freq"`
	MidLevel        float64 `json:"mid_level"`
	LevelDB         float64 `json:"level_db"`
	Randomization   float64 `json:"level_randomization"`
	Attack          float64 `json:"attack"`
	AttackDetected  bool    `json:"attack_detected"`
	AttackProfile   float64 `json:"attack_profile"`
	Fit             string  `json:"fit"`
	ModulationRate  float64 `json:"modulation_rate"`
	ModulationDepth float64 `json:"modulation_depth"`
}

type analysisView struct {
	File        string        `json:"file"`
	Partials    int           `json:"partials_count"`
	Frames      int           `json:"frame_count"`
	Fundamental float64       `json:"fundamental"`
	Harmonics   []partialView `json:"partials"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Print per-partial descriptors of one partials file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := append(cfg.PartialsOptions(), partials.WithLogger(logger))
			c, err := partials.ReadFromFile(args[0], opts...)
			if err != nil {
				return err
			}

			view := newAnalysisView(args[0], c, limit)
			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, view)
			}

			fmt.Fprintf(out, "%s: %d partials, %d frames, fundamental %.2f Hz\n",
				view.File, view.Partials, view.Frames, view.Fundamental)
			fmt.Fprintln(out, renderPartials(out, view.Harmonics))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Write descriptors as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the lowest n partials (0 = all)")
	return cmd
}

func newAnalysisView(file string, c *partials.Collection, limit int) analysisView {
	ps := c.Partials()
	if limit > 0 && limit < len(ps) {
		ps = ps[:limit]
	}

	fundamental := c.Fundamental()
	view := analysisView{
		File:        file,
		Partials:    c.PartialsCount(),
		Frames:      c.FrameCount(),
		Fundamental: fundamental,
		Harmonics:   make([]partialView, len(ps)),
	}
	for i, p := range ps {
		var ratio float64
		if fundamental > 0 {
			ratio = p.MidFreq / fundamental
		}
		view.Harmonics[i] = partialView{
			Rank:            i,
			MidFreq:         p.MidFreq,
			Ratio:           ratio,
			LowestFreq:      p.LowestFreq,
			HighestFreq:     p.HighestFreq,
			MidLevel:        p.MidLevel,
			LevelDB:         level.AmplitudeDB(p.MidLevel, -100),
			Randomization:   p.LevelRandomization,
			Attack:          p.Attack,
			AttackDetected:  p.AttackDetected,
			AttackProfile:   p.AttackProfile,
			Fit:             p.Fit.String(),
			ModulationRate:  p.ModulationRate,
			ModulationDepth: p.ModulationDepth,
		}
	}
	return view
}

func renderPartials(out io.Writer, views []partialView) string {
	headers := []string{"#", "Freq Hz", "Ratio", "Range Hz", "Level dB", "Rand dB", "Attack s", "Profile", "Fit", "Mod Hz"}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			strconv.Itoa(v.Rank),
			fmt.Sprintf("%.2f", v.MidFreq),
			fmt.Sprintf("%.3f", v.Ratio),
			fmt.Sprintf("%.1f-%.1f", v.LowestFreq, v.HighestFreq),
			fmt.Sprintf("%.1f", v.LevelDB),
			fmt.Sprintf("%.2f", v.Randomization),
			fmt.Sprintf("%.3f", v.Attack),
			fmt.Sprintf("%.3f", v.AttackProfile),
			v.Fit,
			fmt.Sprintf("%.2f", v.ModulationRate),
		})
	}
	return renderTable(out, headers, rows, aligns)
}
