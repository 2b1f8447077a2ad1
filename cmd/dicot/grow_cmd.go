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

type growCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	classFeature  string
	splitFeatures []string
	workers       int
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of samples",
		Long:  `Grow a binary classification tree from a set of labeled samples to predict a class feature.`,
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
			fmt.Print(t)
			fmt.Printf("%d nodes, %d leaves, depth %d\n", t.Nodes(), t.Leaves(), t.Depth())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or Redis connection URL with samples to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input samples (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the grown tree should predict (defaults to the class feature declared in the metadata)")
	cmd.PersistentFlags().StringSliceVarP(&(config.splitFeatures), "features", "f", nil, "names of the features the tree is allowed to split on (defaults to every feature but the class feature)")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 1, "number of workers concurrently evaluating candidate features during split selection")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.workers < 1 {
		return fmt.Errorf("workers flag was set to an invalid value: it must be set to a positive number")
	}
	return nil
}

func (gcc *growCmdConfig) trainingSet(features []feature.Feature) (dataset.Dataset, error) {
	if gcc.dataInput == "" {
		log.Info().Msg("reading training set from STDIN")
	} else {
		log.Info().Str("input", gcc.dataInput).Msg("reading training set")
	}
	ds, err := readSamples(gcc.Context(), gcc.dataInput, features)
	if err != nil {
		return nil, fmt.Errorf("reading training set: %v", err)
	}
	return ds, nil
}

func (gcc *growCmdConfig) Context() context.Context {
	gcc.setContextAndCancelFunc()
	return gcc.ctx
}

func (gcc *growCmdConfig) ContextCancelFunc() context.CancelFunc {
	gcc.setContextAndCancelFunc()
	return gcc.cancelFunc
}

func (gcc *growCmdConfig) setContextAndCancelFunc() {
	if gcc.ctx == nil {
		gcc.ctx, gcc.cancelFunc = context.WithCancel(context.Background())
	}
}

func popClassFeature(features []feature.Feature, name string) (feature.Feature, error) {
	i, err := classFeatureIndex(features, name)
	if err != nil {
		return nil, err
	}
	classFeature := features[i]
	features[i], features[len(features)-1] = features[len(features)-1], features[i]
	return classFeature, nil
}

func classFeatureIndex(features []feature.Feature, name string) (int, error) {
	if name == "" {
		index := -1
		for i, f := range features {
			if _, ok := f.(*feature.ClassFeature); ok {
				if index >= 0 {
					return 0, fmt.Errorf("the metadata defines several class features, select one with the class-feature flag")
				}
				index = i
			}
		}
		if index < 0 {
			return 0, fmt.Errorf("the metadata defines no class feature")
		}
		return index, nil
	}
	for i, f := range features {
		if f.Name() == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("class feature '%s' is not defined", name)
}

func splitFeatureIndexes(features []feature.Feature, names []string) ([]int, error) {
	featureColumns := features[:len(features)-1]
	if len(names) == 0 {
		indexes := make([]int, 0, len(featureColumns))
		for i := range featureColumns {
			indexes = append(indexes, i)
		}
		return indexes, nil
	}
	indexes := make([]int, 0, len(names))
	for _, name := range names {
		if name == features[len(features)-1].Name() {
			return nil, fmt.Errorf("cannot split on class feature '%s'", name)
		}
		index := -1
		for i, f := range featureColumns {
			if f.Name() == name {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, fmt.Errorf("feature '%s' is not defined", name)
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}

func featureNames(features []feature.Feature) []string {
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name())
	}
	return names
}
