package yaml

import (
	"testing"

	"github.com/pbanos/dicot/feature"
	"github.com/stretchr/testify/assert"
)

func TestReadFeatures(t *testing.T) {

	type test struct {
		yml      string
		names    []string
		classes  []string
		parseErr bool
	}

	tests := map[string]test{
		"continuous features and a trailing class": {
			yml: `
features:
  sepal_length: continuous
  sepal_width: continuous
  poisonous: [0, 1]
`,
			names:   []string{"sepal_length", "sepal_width", "poisonous"},
			classes: []string{"poisonous"},
		},
		"class declared first keeps declaration order": {
			yml: `
features:
  poisonous: [1, 0]
  sepal_length: continuous
`,
			names:   []string{"poisonous", "sepal_length"},
			classes: []string{"poisonous"},
		},
		"no features property": {
			yml:      `something: else`,
			parseErr: true,
		},
		"class with more than two values": {
			yml: `
features:
  poisonous: [0, 1, 2]
`,
			parseErr: true,
		},
		"class with values other than 0 and 1": {
			yml: `
features:
  poisonous: [1, 2]
`,
			parseErr: true,
		},
		"feature declared with a number": {
			yml: `
features:
  sepal_length: 42
`,
			parseErr: true,
		},
		"not yml at all": {
			yml:      `{{{{`,
			parseErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			features, err := ReadFeatures([]byte(tt.yml))
			if tt.parseErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			names := []string{}
			classes := []string{}
			for _, f := range features {
				names = append(names, f.Name())
				if _, ok := f.(*feature.ClassFeature); ok {
					classes = append(classes, f.Name())
				}
			}
			assert.Equal(t, tt.names, names)
			assert.Equal(t, tt.classes, classes)
		})
	}

}

func TestReadFeaturesFromFileMissing(t *testing.T) {
	features, err := ReadFeaturesFromFile("testdata/does-not-exist.yml")
	assert.Error(t, err)
	assert.Nil(t, features)
}
