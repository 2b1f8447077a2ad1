package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/dicot"
	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
	"github.com/pbanos/dicot/feature/yaml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	testingInput  string
	metadataInput string
	classFeature  string
	splitFeatures []string
	workers       int
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Grow a binary classification tree from a training set and test its performance against a testing set of labeled samples`,
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
			classFeature, err := popClassFeature(features, config.classFeature)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			splitFeatures, err := splitFeatureIndexes(features, config.splitFeatures)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			trainingSet, err := config.trainingSet(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			log.Info().Int("samples", trainingSet.Count()).Int("features", len(splitFeatures)).Str("class", classFeature.Name()).Msg("growing tree")
			g := &dicot.Grower{Workers: config.workers}
			t, err := g.Grow(trainingSet, splitFeatures)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(8)
			}
			t.Names = featureNames(features)
			log.Info().Msg("tree grown")
			testingSet, err := config.testingSet(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			log.Info().Int("samples", testingSet.Count()).Msg("testing tree")
			successRate, failures, err := t.Test(testingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(10)
			}
			log.Info().Msg("tree tested")
			fmt.Printf("%f success rate, %d samples misclassified\n", successRate, failures)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or Redis connection URL with samples to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input samples (required)")
	cmd.PersistentFlags().StringVarP(&(config.testingInput), "testing", "t", "", "path to a testing CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or Redis connection URL with labeled samples to test the tree against (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the grown tree should predict (defaults to the class feature declared in the metadata)")
	cmd.PersistentFlags().StringSliceVarP(&(config.splitFeatures), "features", "f", nil, "names of the features the tree is allowed to split on (defaults to every feature but the class feature)")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 1, "number of workers concurrently evaluating candidate features during split selection")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if tcc.testingInput == "" {
		return fmt.Errorf("required testing flag was not set")
	}
	if tcc.workers < 1 {
		return fmt.Errorf("workers flag was set to an invalid value: it must be set to a positive number")
	}
	return nil
}

func (tcc *testCmdConfig) trainingSet(features []feature.Feature) (dataset.Dataset, error) {
	if tcc.dataInput == "" {
		log.Info().Msg("reading training set from STDIN")
	} else {
		log.Info().Str("input", tcc.dataInput).Msg("reading training set")
	}
	ds, err := readSamples(tcc.Context(), tcc.dataInput, features)
	if err != nil {
		return nil, fmt.Errorf("reading training set: %v", err)
	}
	return ds, nil
}

func (tcc *testCmdConfig) testingSet(features []feature.Feature) (dataset.Dataset, error) {
	log.Info().Str("testing", tcc.testingInput).Msg("reading testing set")
	ds, err := readSamples(tcc.Context(), tcc.testingInput, features)
	if err != nil {
		return nil, fmt.Errorf("reading testing set: %v", err)
	}
	return ds, nil
}

func (tcc *testCmdConfig) Context() context.Context {
	tcc.setContextAndCancelFunc()
	return tcc.ctx
}

func (tcc *testCmdConfig) ContextCancelFunc() context.CancelFunc {
	tcc.setContextAndCancelFunc()
	return tcc.cancelFunc
}

func (tcc *testCmdConfig) setContextAndCancelFunc() {
	if tcc.ctx == nil {
		tcc.ctx, tcc.cancelFunc = context.WithCancel(context.Background())
	}
}
