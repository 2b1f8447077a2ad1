package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/dataset/csv"
	"github.com/pbanos/dicot/feature"
	"github.com/pbanos/dicot/feature/yaml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput      string
	metadataInput string
	setOutput     string
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage datasets of samples",
		Long:  `Manage datasets of samples: copy them between backends, split them and describe them`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			config.Context()
			log.Info().Str("metadata", config.metadataInput).Msg("reading features from metadata")
			features, err := yaml.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			log.Info().Msg("features from metadata read")

			output, err := config.OutputWriter(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}

			inputStream, errStream, err := config.InputStream(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}

			for s := range inputStream {
				err = output.Write(config.Context(), s)
				if err != nil {
					config.ContextCancelFunc()()
					break
				}
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
			err = <-errStream
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			log.Info().Msg("flushing output dataset")
			err = output.Flush(config.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			log.Info().Int("samples", output.Count()).Msg("dataset copied")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or Redis connection URL with the samples to manage (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input samples (required)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or Redis connection URL to dump the output dataset (defaults to STDOUT in CSV)")
	cmd.AddCommand(splitCmd(rootConfig), describeCmd(rootConfig))
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (scc *setCmdConfig) OutputWriter(features []feature.Feature) (dataset.Writer, error) {
	if scc.setOutput != "" && backendLocation(scc.setOutput) {
		return openSamplesBackend(scc.Context(), scc.setOutput, features, true)
	}
	var outputFile *os.File
	var err error
	if scc.setOutput != "" {
		log.Info().Str("output", scc.setOutput).Msg("creating file to dump the output dataset")
		outputFile, err = os.Create(scc.setOutput)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info().Msg("using STDOUT to dump the output dataset")
		outputFile = os.Stdout
	}
	return csv.NewWriter(outputFile, features)
}

func (scc *setCmdConfig) InputStream(features []feature.Feature) (<-chan dataset.Sample, <-chan error, error) {
	var r dataset.Reader
	var f *os.File
	if scc.setInput == "" {
		log.Info().Msg("reading input dataset from STDIN")
		r = csv.NewReader(os.Stdin, features)
	} else if backendLocation(scc.setInput) {
		var err error
		r, err = openSamplesBackend(scc.Context(), scc.setInput, features, false)
		if err != nil {
			return nil, nil, err
		}
	} else {
		log.Info().Str("input", scc.setInput).Msg("opening file to read the input dataset")
		var err error
		f, err = os.Open(scc.setInput)
		if err != nil {
			return nil, nil, fmt.Errorf("reading input dataset from %s: %v", scc.setInput, err)
		}
		r = csv.NewReader(f, features)
	}
	sampleStream := make(chan dataset.Sample)
	errStream := make(chan error)
	go func() {
		if f != nil {
			defer f.Close()
		}
		err := r.BySample(scc.Context(), func(i int, s dataset.Sample) (bool, error) {
			select {
			case <-scc.Context().Done():
				return false, nil
			case sampleStream <- s:
			}
			return true, nil
		})
		if err != nil {
			go func() {
				errStream <- err
				close(errStream)
			}()
		} else {
			close(errStream)
		}
		close(sampleStream)
	}()
	return sampleStream, errStream, nil
}

func (scc *setCmdConfig) Context() context.Context {
	scc.setContextAndCancelFunc()
	return scc.ctx
}

func (scc *setCmdConfig) ContextCancelFunc() context.CancelFunc {
	scc.setContextAndCancelFunc()
	return scc.cancelFunc
}

func (scc *setCmdConfig) setContextAndCancelFunc() {
	if scc.ctx == nil {
		scc.ctx, scc.cancelFunc = context.WithCancel(context.Background())
	}
}
