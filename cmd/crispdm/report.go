package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ezoic/crispdm/crispdm"
	"github.com/ezoic/crispdm/pkg/errors"
	"github.com/ezoic/crispdm/plotting"
	"github.com/ezoic/crispdm/session"
)

type reportFlags struct {
	a, b, noise float64
	n           int
	seedCounter uint64
	noFixedSeed bool
	predictX    float64
	format      string
	series      bool
	svgDir      string
}

func newReportCmd(a *app) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the analysis once and print every phase",
		Example: "  crispdm report --a 1.5 --noise 3\n" +
			"  crispdm report --format yaml --series\n" +
			"  crispdm report --svg-dir ./figures",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildReport(cmd, f)
			if err != nil {
				return err
			}
			if f.svgDir != "" {
				if err := writeFigures(f.svgDir, r); err != nil {
					return err
				}
			}
			if !f.series {
				r.Evaluation.Diagnostics = nil
			}
			return writeReport(cmd.OutOrStdout(), r, f.format)
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&f.a, "a", 0, "slope a (default from config)")
	fl.Float64Var(&f.b, "b", 0, "intercept b (default from config)")
	fl.Float64Var(&f.noise, "noise", 0, "noise standard deviation (default from config)")
	fl.IntVar(&f.n, "n", 0, "number of points (default from config)")
	fl.Uint64Var(&f.seedCounter, "seed-counter", 0, "number of manual regenerations to apply")
	fl.BoolVar(&f.noFixedSeed, "no-fixed-seed", false, "draw unseeded data")
	fl.Float64Var(&f.predictX, "predict-x", crispdm.DefaultPredictionX, "input of the deployment prediction")
	fl.StringVarP(&f.format, "format", "o", "text", "output format: text, json or yaml")
	fl.BoolVar(&f.series, "series", false, "include the diagnostic series in json and yaml output")
	fl.StringVar(&f.svgDir, "svg-dir", "", "also write distribution.svg and diagnostics.svg to this directory")

	return cmd
}

func (a *app) buildReport(cmd *cobra.Command, f reportFlags) (*crispdm.Report, error) {
	switch f.format {
	case "text", "json", "yaml":
	default:
		return nil, errors.NewValueError("report", fmt.Sprintf("invalid --format %q (expected text|json|yaml)", f.format))
	}

	p := a.cfg.Defaults.Params
	fl := cmd.Flags()
	if fl.Changed("a") {
		p.A = f.a
	}
	if fl.Changed("b") {
		p.B = f.b
	}
	if fl.Changed("noise") {
		p.NoiseSigma = f.noise
	}
	if fl.Changed("n") {
		p.N = f.n
	}

	st := session.New(
		session.WithBaseSeed(a.cfg.Generator.BaseSeed),
		session.WithFixedSeed(a.cfg.Defaults.FixedSeed && !f.noFixedSeed),
	)
	st.SeedCounter = f.seedCounter

	ds, _, err := st.Refresh(p)
	if err != nil {
		return nil, err
	}

	opts := crispdm.DefaultReportOptions()
	opts.TestSize = a.cfg.Split.TestSize
	opts.RandomState = a.cfg.Split.RandomState
	opts.PredictX = f.predictX
	opts.IncludeSeries = f.series || f.svgDir != ""

	return crispdm.BuildReport(p, ds, opts)
}

func writeReport(w io.Writer, r *crispdm.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return r.WriteText(w)
	}
}

func writeFigures(dir string, r *crispdm.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	figures := []struct {
		name string
		draw func(io.Writer, *crispdm.Report) error
	}{
		{"distribution.svg", plotting.DistributionSVG},
		{"diagnostics.svg", plotting.DiagnosticsSVG},
	}
	for _, fig := range figures {
		if err := writeFigure(filepath.Join(dir, fig.name), r, fig.draw); err != nil {
			return err
		}
	}
	return nil
}

func writeFigure(path string, r *crispdm.Report, draw func(io.Writer, *crispdm.Report) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return draw(f, r)
}
