package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/dicot/feature"
	"github.com/pbanos/dicot/feature/yaml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type describeCmdConfig struct {
	setInput      string
	metadataInput string
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func describeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &describeCmdConfig{}
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe the samples of a dataset",
		Long:  `Summarize every feature of a dataset with its minimum, maximum, mean and standard deviation, and report the balance of its class features`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			log.Info().Str("metadata", config.metadataInput).Msg("reading features from metadata")
			features, err := yaml.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			log.Info().Msg("features from metadata read")
			if config.setInput == "" {
				log.Info().Msg("reading dataset from STDIN")
			} else {
				log.Info().Str("input", config.setInput).Msg("reading dataset")
			}
			ds, err := readSamples(config.Context(), config.setInput, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			if ds.Count() == 0 {
				fmt.Fprintln(os.Stderr, "cannot describe a dataset with no samples")
				os.Exit(5)
			}
			fmt.Printf("%d samples\n", ds.Count())
			fmt.Printf("%-20s %10s %10s %10s %10s\n", "feature", "min", "max", "mean", "stddev")
			for i, f := range features {
				values := ds.FeatureValues(i)
				fmt.Printf("%-20s %10.4f %10.4f %10.4f %10.4f\n", f.Name(), floats.Min(values), floats.Max(values), stat.Mean(values, nil), stat.StdDev(values, nil))
			}
			for i, f := range features {
				if _, ok := f.(*feature.ClassFeature); !ok {
					continue
				}
				values := ds.FeatureValues(i)
				ones := 0
				for _, v := range values {
					if v == 1 {
						ones++
					}
				}
				zeros := len(values) - ones
				fmt.Printf("%s balance: %d samples of class 0 (%.1f%%), %d samples of class 1 (%.1f%%)\n",
					f.Name(), zeros, 100*float64(zeros)/float64(len(values)), ones, 100*float64(ones)/float64(len(values)))
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or Redis connection URL with the samples to describe (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input samples (required)")
	return cmd
}

func (dcc *describeCmdConfig) Validate() error {
	if dcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (dcc *describeCmdConfig) Context() context.Context {
	dcc.setContextAndCancelFunc()
	return dcc.ctx
}

func (dcc *describeCmdConfig) ContextCancelFunc() context.CancelFunc {
	dcc.setContextAndCancelFunc()
	return dcc.cancelFunc
}

func (dcc *describeCmdConfig) setContextAndCancelFunc() {
	if dcc.ctx == nil {
		dcc.ctx, dcc.cancelFunc = context.WithCancel(context.Background())
	}
}
