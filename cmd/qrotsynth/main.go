package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oisee/qrotsynth/pkg/angle"
	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/config"
	"github.com/oisee/qrotsynth/pkg/gate"
	qlog "github.com/oisee/qrotsynth/pkg/log"
	"github.com/oisee/qrotsynth/pkg/optimize"
	"github.com/oisee/qrotsynth/pkg/qasm"
	"github.com/oisee/qrotsynth/pkg/qerr"
	"github.com/oisee/qrotsynth/pkg/report"
)

func main() {
	var cfgFile, envFile string
	cfg := config.Default()

	rootCmd := &cobra.Command{
		Use:   "qrotsynth",
		Short: "Synthesize Clifford+T circuits from qubit rotation gates",
	}

	// synthesize command
	var input, output, reportPath, checkpointPath string
	var precision, costSingle int
	var sameAngle, verbose, bitList bool

	synthCmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Parse a rotation-gate program and emit a synthesized circuit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.LoadEnv(envFile); err != nil {
				return err
			}
			if cfgFile != "" {
				if err := cfg.LoadFile(cfgFile); err != nil {
					return err
				}
			}
			applyFlagOverrides(cmd, &cfg, flagValues{
				input: input, output: output, report: reportPath,
				precision: precision, costSingle: costSingle,
				sameAngle: sameAngle, verbose: verbose,
			})

			var missing []string
			if cfg.Input == "" {
				missing = append(missing, "--in")
			}
			if cfg.Output == "" {
				missing = append(missing, "--out")
			}
			if err := requireFlags(missing); err != nil {
				cmd.Println(cmd.UsageString())
				return err
			}

			logger := qlog.New(cfg.Verbose)

			in, err := os.Open(cfg.Input)
			if err != nil {
				return qerr.Wrap(qerr.ErrIO, err)
			}
			defer in.Close()

			var gates *gate.Registry
			var table *bits.Table
			var headers []string
			var lastAngle float64

			if bitList {
				gates, table, err = qasm.ParseBitList(in, cfg.Precision, cfg.SameAngle)
				if err != nil {
					return err
				}
			} else {
				parsed, err := qasm.ParseAssembly(in)
				if err != nil {
					return err
				}
				gates = parsed.Gates
				headers = parsed.Headers

				mode := angle.General
				if cfg.SameAngle {
					mode = angle.SameAngle
				}
				results, err := angle.EncodeAll(gates.All(), cfg.Precision, mode)
				if err != nil {
					return qerr.Wrap(qerr.ErrSemantic, err)
				}
				table = bits.FromEncoded(results, cfg.Precision, mode)
				if mode == angle.SameAngle && len(results) > 0 {
					lastAngle = results[0].Fraction
				}
			}

			optCfg := optimize.Config{Precision: cfg.Precision, CostSingle: cfg.CostSingle, SameAngle: cfg.SameAngle}
			res, err := optimize.Synthesize(table, gates, optCfg, logger)
			if err != nil {
				return qerr.Wrap(qerr.ErrInternal, err)
			}

			out, err := os.Create(cfg.Output)
			if err != nil {
				return qerr.Wrap(qerr.ErrIO, err)
			}
			defer out.Close()

			em := &qasm.Emitter{
				Table:      res.Table,
				Gates:      gates,
				Excluded:   res.Excluded,
				SameAngle:  cfg.SameAngle,
				LastAngle:  lastAngle,
				CostSingle: optCfg.CostSingle,
				Headers:    headers,
			}
			finalCost, err := em.Emit(out)
			if err != nil {
				return qerr.Wrap(qerr.ErrIO, err)
			}

			logger.Info().Int("total_cost", finalCost).Int("n_adders", res.NAdders).Msg("synthesis complete")

			if cfg.Report != "" {
				rep := report.NewReport(finalCost, res.NAdders, cfg.Precision, cfg.SameAngle, res.Excluded)
				rf, err := os.Create(cfg.Report)
				if err != nil {
					return qerr.Wrap(qerr.ErrIO, err)
				}
				defer rf.Close()
				if err := rep.WriteJSON(rf); err != nil {
					return qerr.Wrap(qerr.ErrIO, err)
				}
			}

			if checkpointPath != "" {
				logger.Debug().Str("path", checkpointPath).Msg("checkpoint requested after a completed run is a no-op; use resume on an interrupted run instead")
			}

			return nil
		},
	}
	synthCmd.Flags().StringVar(&input, "in", "", "Input rotation-gate program path")
	synthCmd.Flags().StringVar(&output, "out", "", "Output synthesized circuit path")
	synthCmd.Flags().IntVar(&precision, "prec", cfg.Precision, "Fixed-point fractional bit count")
	synthCmd.Flags().IntVar(&costSingle, "cost", cfg.CostSingle, "Toffoli cost per single-rotation exclusion")
	synthCmd.Flags().BoolVar(&sameAngle, "same", cfg.SameAngle, "All gates share one angle (Fourier accumulator mode)")
	synthCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	synthCmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON cost report to this path")
	synthCmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "Checkpoint file path (see resume)")
	synthCmd.Flags().BoolVar(&bitList, "bitlist", false, "Treat --in as a pre-encoded bit-list file (one line per gate) instead of a rotation-gate program")

	// inspect command
	inspectCmd := &cobra.Command{
		Use:   "inspect [report.json]",
		Short: "Print a previously written JSON cost report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return qerr.Wrap(qerr.ErrIO, err)
			}
			defer f.Close()
			rep, err := report.ReadJSON(f)
			if err != nil {
				return qerr.Wrap(qerr.ErrParse, err)
			}
			fmt.Printf("total_cost=%d n_adders=%d precision=%d same_angle=%v excluded=%d\n",
				rep.TotalCost, rep.NAdders, rep.Precision, rep.SameAngle, len(rep.ExcludedGates))
			return nil
		},
	}

	// resume command
	var resumeOutput string
	resumeCmd := &cobra.Command{
		Use:   "resume [checkpoint.gob]",
		Short: "Continue a checkpointed synthesis run to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var missing []string
			if resumeOutput == "" {
				missing = append(missing, "--out")
			}
			if err := requireFlags(missing); err != nil {
				cmd.Println(cmd.UsageString())
				return err
			}

			logger := qlog.New(cfg.Verbose)

			ckpt, err := report.LoadCheckpoint(args[0])
			if err != nil {
				return qerr.Wrap(qerr.ErrIO, err)
			}
			gates, err := ckpt.Registry()
			if err != nil {
				return qerr.Wrap(qerr.ErrSemantic, err)
			}
			table := ckpt.Table()

			o := optimize.New(table, gates, optimize.Config{
				Precision:  table.R,
				CostSingle: ckpt.CostSingle,
				SameAngle:  ckpt.SameAngle,
			}, logger)
			o.Excluded = ckpt.Excluded

			res, err := o.RunFrom(ckpt.TotalCost)
			if err != nil {
				return qerr.Wrap(qerr.ErrInternal, err)
			}
			if err := o.Concretize(); err != nil {
				return qerr.Wrap(qerr.ErrInternal, err)
			}

			out, err := os.Create(resumeOutput)
			if err != nil {
				return qerr.Wrap(qerr.ErrIO, err)
			}
			defer out.Close()

			em := &qasm.Emitter{
				Table:      res.Table,
				Gates:      gates,
				Excluded:   res.Excluded,
				SameAngle:  ckpt.SameAngle,
				LastAngle:  ckpt.LastAngle,
				CostSingle: ckpt.CostSingle,
			}
			finalCost, err := em.Emit(out)
			if err != nil {
				return qerr.Wrap(qerr.ErrIO, err)
			}
			logger.Info().Int("total_cost", finalCost).Msg("resumed synthesis complete")
			return nil
		},
	}
	resumeCmd.Flags().StringVar(&resumeOutput, "out", "", "Output synthesized circuit path")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Optional .env file path")

	rootCmd.AddCommand(synthCmd, inspectCmd, resumeCmd)

	defaultHelpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelpFunc(cmd, args)
		os.Exit(qerr.ExitCode(qerr.Wrap(qerr.ErrUsage, fmt.Errorf("help requested"))))
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(qerr.ExitCode(err))
	}
}

// requireFlags returns a usage error naming every flag in missing, or
// nil if missing is empty.
func requireFlags(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return qerr.Wrap(qerr.ErrUsage, fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", ")))
}

// flagValues holds synthesize's CLI flag destinations so their defaults
// can be bound before the config file is known, while still letting an
// explicitly-passed flag win over whatever LoadEnv/LoadFile set.
type flagValues struct {
	input, output, report string
	precision, costSingle int
	sameAngle, verbose    bool
}

// applyFlagOverrides layers explicitly-passed CLI flags over whatever
// LoadEnv/LoadFile already populated, matching the documented
// precedence: defaults < .env < --config file < explicit CLI flags.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, v flagValues) {
	if cmd.Flags().Changed("in") {
		cfg.Input = v.input
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = v.output
	}
	if cmd.Flags().Changed("report") {
		cfg.Report = v.report
	}
	if cmd.Flags().Changed("prec") {
		cfg.Precision = v.precision
	}
	if cmd.Flags().Changed("cost") {
		cfg.CostSingle = v.costSingle
	}
	if cmd.Flags().Changed("same") {
		cfg.SameAngle = v.sameAngle
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = v.verbose
	}
}
