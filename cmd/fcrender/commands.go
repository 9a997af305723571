package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/PresageLabs/PrediBench-sub001/src/chart"
	"github.com/PresageLabs/PrediBench-sub001/src/config"
	"github.com/PresageLabs/PrediBench-sub001/src/logging"
	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

var errUsage = errors.New("usage")

// newRootCmd builds the command tree. cfg holds the environment-derived
// defaults and receives the parsed flags.
func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "fcrender",
		Short: "Render and inspect forecast time-series charts",
		Long: `fcrender loads a series file (JSON document or JSONL records) and an
optional annotation file, then renders the chart or prints its scale and
hover resolution. Settings come from .env, PREDIBENCH_* variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !logging.SetLogLevel(cfg.LogLevel) {
				return fmt.Errorf("%w: log level %q", config.ErrInvalid, cfg.LogLevel)
			}
			return nil
		},
	}
	fs := flag.NewFlagSet("fcrender", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	root.PersistentFlags().AddGoFlagSet(fs)

	root.AddCommand(renderCmd(cfg), ticksCmd(cfg), hoverCmd(cfg))
	return root
}

// composerFor loads the configured inputs into a measured composer.
func composerFor(cfg *config.Config) (*chart.Composer, error) {
	ds, ann, err := cfg.LoadInputs()
	if err != nil {
		return nil, err
	}
	c, err := chart.NewComposer(chart.Options{
		Domain:      ds.Domain,
		TickRange:   cfg.TickRange(),
		Annotations: ann,
		Theme:       cfg.ChartTheme(),
	})
	if err != nil {
		return nil, err
	}
	c.SetSeries(ds.Series)
	c.Resize(float64(cfg.Width), float64(cfg.Height))
	return c, nil
}

// hoverAt resolves the hover for a time given as text, or for a pixel column
// when at is empty.
func hoverAt(c *chart.Composer, at string, px float64) error {
	sc, err := c.Scale()
	if err != nil {
		return err
	}
	if at != "" {
		t, err := types.ParseTime(at)
		if err != nil {
			return err
		}
		px = sc.X(t)
	}
	c.PointerMove(px)
	c.Wait()
	return nil
}

func renderCmd(cfg *config.Config) *cobra.Command {
	var output, format, at string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart to a PNG or SVG file",
		Example: `  fcrender render --data series.json -o chart.png
  fcrender render --data points.jsonl --annotations notes.yaml --at 2024-03-01 -o hover.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("%w: --output is required", errUsage)
			}
			provider, err := providerFor(format, output)
			if err != nil {
				return err
			}
			c, err := composerFor(cfg)
			if err != nil {
				return err
			}
			defer c.Close()
			if at != "" {
				if err := hoverAt(c, at, 0); err != nil {
					return err
				}
			}
			var buf bytes.Buffer
			if err := chart.Render(c.Model(), provider, &buf); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", output, cfg.Width, cfg.Height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	cmd.Flags().StringVar(&format, "format", "", "png or svg (default: from the output extension)")
	cmd.Flags().StringVar(&at, "at", "", "Render with the pointer at this time")
	return cmd
}

func providerFor(format, output string) (gochart.RendererProvider, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch strings.ToLower(format) {
	case "png", "":
		return gochart.PNG, nil
	case "svg":
		return gochart.SVG, nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", errUsage, format)
}

func ticksCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ticks",
		Short: "Print the y domain, tick step and axis ticks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := composerFor(cfg)
			if err != nil {
				return err
			}
			defer c.Close()
			m := c.Model()
			if m.Empty {
				return errors.New(m.Message)
			}
			printTicks(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

func printTicks(w io.Writer, m chart.RenderModel) {
	sc := m.Scale
	mode := "inferred"
	if sc.Explicit {
		mode = "explicit"
	}
	fmt.Fprintf(w, "domain: [%s, %s] (%s)\n", chart.FormatTick(sc.DomainMin, sc.Step), chart.FormatTick(sc.DomainMax, sc.Step), mode)
	fmt.Fprintf(w, "step: %s\n", chart.FormatTick(sc.Step, sc.Step))
	labels := make([]string, len(m.YTicks))
	for i, tk := range m.YTicks {
		labels[i] = tk.Label
	}
	fmt.Fprintf(w, "y: %s\n", strings.Join(labels, " "))
	labels = labels[:0]
	for _, tk := range m.XTicks {
		labels = append(labels, tk.Label)
	}
	fmt.Fprintf(w, "x: %s\n", strings.Join(labels, " | "))
}

func hoverCmd(cfg *config.Config) *cobra.Command {
	var at string
	var px float64
	cmd := &cobra.Command{
		Use:   "hover",
		Short: "Print what the chart shows with the pointer at a time or pixel column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if at == "" && !cmd.Flags().Changed("px") {
				return fmt.Errorf("%w: one of --at or --px is required", errUsage)
			}
			c, err := composerFor(cfg)
			if err != nil {
				return err
			}
			defer c.Close()
			if err := hoverAt(c, at, px); err != nil {
				return err
			}
			printHover(cmd.OutOrStdout(), c.Hover())
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Pointer time (date or RFC3339)")
	cmd.Flags().Float64Var(&px, "px", 0, "Pointer pixel column")
	return cmd
}

func printHover(w io.Writer, hs *chart.HoverState) {
	if hs == nil {
		fmt.Fprintln(w, "nothing under the pointer")
		return
	}
	if a := hs.Annotation; a != nil {
		end := "open"
		if !a.Window.Open {
			end = a.Window.End.Format("2006-01-02")
		}
		fmt.Fprintf(w, "annotation %s .. %s\n%s\n", a.Window.Start.Format("2006-01-02"), end, strings.TrimSpace(a.Window.Content))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SERIES\tTIME\tVALUE\n")
	for _, tip := range hs.Tooltips {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tip.Series.DisplayName(), tip.Point.X.Format("2006-01-02 15:04"), tip.Label)
	}
	tw.Flush()
}
