package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/dicot"
	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/dataset/csv"
	"github.com/pbanos/dicot/dataset/inputsample"
	"github.com/pbanos/dicot/feature"
	"github.com/pbanos/dicot/feature/yaml"
	"github.com/pbanos/dicot/tree"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type classifyCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	classFeature  string
	splitFeatures []string
	workers       int
	samplesInput  string
	samplesOutput string
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

type stdoutFeatureValueRequester struct{}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify samples with a tree grown from a training set",
		Long:  `Grow a binary classification tree from a training set and use it to classify new samples, either read from a CSV file or described interactively answering a reduced set of questions about their features`,
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

			if config.samplesInput != "" {
				output, err := config.OutputWriter(features)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				err = config.classifySamples(t, features, output)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(9)
				}
				log.Info().Msg("flushing classified samples")
				err = output.Flush(config.Context())
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(10)
				}
				log.Info().Int("samples", output.Count()).Msg("samples classified")
				return
			}
			class, err := config.classifySample(t, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			fmt.Printf("Predicted %s is %d\n", classFeature.Name(), class)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or Redis connection URL with samples to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input samples (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the grown tree should predict (defaults to the class feature declared in the metadata)")
	cmd.PersistentFlags().StringSliceVarP(&(config.splitFeatures), "features", "f", nil, "names of the features the tree is allowed to split on (defaults to every feature but the class feature)")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 1, "number of workers concurrently evaluating candidate features during split selection")
	cmd.PersistentFlags().StringVarP(&(config.samplesInput), "samples", "s", "", "path to a CSV file with unlabeled samples to classify (defaults to interactively asking for the feature values of a single sample)")
	cmd.PersistentFlags().StringVarP(&(config.samplesOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or Redis connection URL to dump the classified samples (defaults to STDOUT in CSV)")
	return cmd
}

func (ccc *classifyCmdConfig) Validate() error {
	if ccc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if ccc.workers < 1 {
		return fmt.Errorf("workers flag was set to an invalid value: it must be set to a positive number")
	}
	if ccc.samplesOutput != "" && ccc.samplesInput == "" {
		return fmt.Errorf("output flag requires a samples flag with samples to classify")
	}
	return nil
}

func (ccc *classifyCmdConfig) trainingSet(features []feature.Feature) (dataset.Dataset, error) {
	if ccc.dataInput == "" {
		log.Info().Msg("reading training set from STDIN")
	} else {
		log.Info().Str("input", ccc.dataInput).Msg("reading training set")
	}
	ds, err := readSamples(ccc.Context(), ccc.dataInput, features)
	if err != nil {
		return nil, fmt.Errorf("reading training set: %v", err)
	}
	return ds, nil
}

func (ccc *classifyCmdConfig) OutputWriter(features []feature.Feature) (dataset.Writer, error) {
	if ccc.samplesOutput != "" && backendLocation(ccc.samplesOutput) {
		return openSamplesBackend(ccc.Context(), ccc.samplesOutput, features, true)
	}
	var outputFile *os.File
	var err error
	if ccc.samplesOutput != "" {
		log.Info().Str("output", ccc.samplesOutput).Msg("creating file to dump the classified samples")
		outputFile, err = os.Create(ccc.samplesOutput)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info().Msg("using STDOUT to dump the classified samples")
		outputFile = os.Stdout
	}
	return csv.NewWriter(outputFile, features)
}

func (ccc *classifyCmdConfig) classifySamples(t *tree.Tree, features []feature.Feature, output dataset.Writer) error {
	featureColumns := features[:len(features)-1]
	log.Info().Str("samples", ccc.samplesInput).Msg("classifying samples")
	return csv.ReadDatasetBySampleFromFilePath(ccc.Context(), ccc.samplesInput, featureColumns, func(i int, s dataset.Sample) (bool, error) {
		class, err := t.Classify(s)
		if err != nil {
			return false, fmt.Errorf("classifying sample %d: %v", i, err)
		}
		err = output.Write(ccc.Context(), append(s, float64(class)))
		if err != nil {
			return false, err
		}
		return true, nil
	})
}

func (ccc *classifyCmdConfig) classifySample(t *tree.Tree, features []feature.Feature) (int, error) {
	featureColumns := features[:len(features)-1]
	sample := inputsample.New(os.Stdin, featureColumns, stdoutFeatureValueRequester{})
	return t.ClassifyFrom(sample)
}

func (ccc *classifyCmdConfig) Context() context.Context {
	ccc.setContextAndCancelFunc()
	return ccc.ctx
}

func (ccc *classifyCmdConfig) ContextCancelFunc() context.CancelFunc {
	ccc.setContextAndCancelFunc()
	return ccc.cancelFunc
}

func (ccc *classifyCmdConfig) setContextAndCancelFunc() {
	if ccc.ctx == nil {
		ccc.ctx, ccc.cancelFunc = context.WithCancel(context.Background())
	}
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.ClassFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are 0 and 1)\n", f.Name())
	case *feature.ContinuousFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers)\n", f.Name())
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value string) error {
	switch f := f.(type) {
	case *feature.ClassFeature:
		fmt.Printf("%s is not a valid value for the sample's %s. Please provide 0 or 1.\n", value, f.Name())
	case *feature.ContinuousFeature:
		fmt.Printf("%s is not a valid value for the sample's %s. Please provide a real number.\n", value, f.Name())
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}
