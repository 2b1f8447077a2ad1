package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/dataset/csv"
	"github.com/pbanos/dicot/feature/yaml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	setInput         string
	metadataInput    string
	setOutput        string
	splitOutput      string
	splitProbability int
	ctx              context.Context
	cancelFunc       context.CancelFunc
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a dataset into two datasets",
		Long:  `Split a dataset into an output dataset and a split dataset, assigning every sample at random according to the split probability`,
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

			var outputFile *os.File
			if config.setOutput != "" {
				log.Info().Str("output", config.setOutput).Msg("creating file to dump the output dataset")
				outputFile, err = os.Create(config.setOutput)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				defer outputFile.Close()
			} else {
				log.Info().Msg("using STDOUT to dump the output dataset")
				outputFile = os.Stdout
			}
			output, err := csv.NewWriter(outputFile, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}

			var splitOutputFile *os.File
			log.Info().Str("split-output", config.splitOutput).Msg("creating file to dump the split dataset")
			splitOutputFile, err = os.Create(config.splitOutput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer splitOutputFile.Close()
			splitOutput, err := csv.NewWriter(splitOutputFile, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}

			randomizer := rand.New(rand.NewSource(time.Now().UnixNano()))
			splitter := func(i int, s dataset.Sample) (bool, error) {
				var err error
				if (100 * randomizer.Float32()) > float32(config.splitProbability) {
					err = output.Write(config.Context(), s)
				} else {
					err = splitOutput.Write(config.Context(), s)
				}
				if err != nil {
					return false, err
				}
				return true, nil
			}

			var f *os.File
			if config.setInput == "" {
				log.Info().Msg("splitting input dataset from STDIN")
				f = os.Stdin
			} else {
				log.Info().Str("input", config.setInput).Msg("opening file to read the input dataset")
				f, err = os.Open(config.setInput)
				if err != nil {
					err = fmt.Errorf("reading input dataset from %s: %v", config.setInput, err)
					fmt.Fprintln(os.Stderr, err)
					os.Exit(7)
				}
				log.Info().Msg("splitting input dataset")
			}
			defer f.Close()
			err = csv.NewReader(f, features).BySample(config.Context(), splitter)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
			log.Info().Msg("flushing output dataset")
			err = output.Flush(config.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			log.Info().Msg("flushing split dataset")
			err = splitOutput.Flush(config.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(10)
			}
			log.Info().Int("samples", output.Count()+splitOutput.Count()).Int("output", output.Count()).Int("split", splitOutput.Count()).Msg("dataset split")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV file with the samples to split (defaults to STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input samples (required)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a file to dump the output dataset (defaults to STDOUT)")
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the dataset will be assigned to the split dataset")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a file to dump the split dataset (required)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}

func (scc *splitCmdConfig) Context() context.Context {
	scc.setContextAndCancelFunc()
	return scc.ctx
}

func (scc *splitCmdConfig) ContextCancelFunc() context.CancelFunc {
	scc.setContextAndCancelFunc()
	return scc.cancelFunc
}

func (scc *splitCmdConfig) setContextAndCancelFunc() {
	if scc.ctx == nil {
		scc.ctx, scc.cancelFunc = context.WithCancel(context.Background())
	}
}
