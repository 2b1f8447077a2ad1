/*
Package redisdataset provides a dataset reader and writer implementation
that uses a redis database as backend.

Samples are stored as JSON objects keying each feature name to its
value, under consecutively numbered keys, together with a count key
tracking how many samples the dataset holds. All keys are namespaced
with a prefix so that several datasets can share a database. Keying
values by feature name keeps stored samples readable with any column
ordering of the same features.
*/
package redisdataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
	"gopkg.in/redis.v5"
)

// writeBatchSize is the number of written samples buffered before they
// are stored on the database.
const writeBatchSize = 100

/*
Dataset is a dataset.Reader and dataset.Writer that stores its samples
on a redis database.
*/
type Dataset interface {
	dataset.Reader
	dataset.Writer
}

type redisdataset struct {
	rc       *redis.Client
	prefix   string
	features []feature.Feature
	pending  [][]byte
	stored   int
	written  int
}

/*
Open takes a redis client, a key prefix and a slice of feature.Feature
whose last element is the class feature, and returns a Dataset that
stores its samples under the prefix on the client's database or an
error if the database cannot be reached.
*/
func Open(ctx context.Context, rc *redis.Client, prefix string, features []feature.Feature) (Dataset, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("a dataset needs at least a class feature")
	}
	rds := &redisdataset{rc: rc, prefix: prefix, features: features}
	if err := rds.validateFeatureNames(); err != nil {
		return nil, err
	}
	_, err := rc.Ping().Result()
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %v", err)
	}
	rds.stored, err = rds.storedCount()
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %v", err)
	}
	return rds, nil
}

func (rds *redisdataset) Read(ctx context.Context) (dataset.Dataset, error) {
	ds := dataset.Dataset{}
	err := rds.BySample(ctx, func(_ int, s dataset.Sample) (bool, error) {
		ds = append(ds, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (rds *redisdataset) BySample(ctx context.Context, lambda func(int, dataset.Sample) (bool, error)) error {
	n, err := rds.storedCount()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		data, err := rds.rc.Get(rds.sampleKey(i)).Result()
		if err != nil {
			return fmt.Errorf("retrieving sample %d: %v", i, err)
		}
		s, err := rds.newSample([]byte(data))
		if err != nil {
			return fmt.Errorf("parsing sample %d: %v", i, err)
		}
		ok, err := lambda(i, s)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

func (rds *redisdataset) Write(ctx context.Context, s dataset.Sample) error {
	row, err := rds.newRow(s)
	if err != nil {
		return err
	}
	rds.pending = append(rds.pending, row)
	rds.written++
	if len(rds.pending) < writeBatchSize {
		return nil
	}
	return rds.flushPending(ctx)
}

func (rds *redisdataset) Flush(ctx context.Context) error {
	if len(rds.pending) == 0 {
		return nil
	}
	return rds.flushPending(ctx)
}

func (rds *redisdataset) Count() int {
	return rds.written
}

func (rds *redisdataset) flushPending(ctx context.Context) error {
	for i, data := range rds.pending {
		if ctx.Err() != nil {
			rds.pending = rds.pending[i:]
			return ctx.Err()
		}
		_, err := rds.rc.Set(rds.sampleKey(rds.stored), data, 0).Result()
		if err != nil {
			rds.pending = rds.pending[i:]
			return fmt.Errorf("writing sample %d in redis: %v", rds.stored, err)
		}
		rds.stored++
	}
	rds.pending = nil
	_, err := rds.rc.Set(rds.countKey(), rds.stored, 0).Result()
	if err != nil {
		return fmt.Errorf("updating sample count in redis: %v", err)
	}
	return nil
}

func (rds *redisdataset) storedCount() (int, error) {
	data, err := rds.rc.Get(rds.countKey()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("retrieving sample count: %v", err)
	}
	count, err := strconv.Atoi(data)
	if err != nil {
		return 0, fmt.Errorf("parsing sample count %q: %v", data, err)
	}
	return count, nil
}

func (rds *redisdataset) newRow(s dataset.Sample) ([]byte, error) {
	if len(s) != len(rds.features) {
		return nil, fmt.Errorf("sample has %d values for %d features", len(s), len(rds.features))
	}
	doc := make(map[string]float64, len(rds.features))
	for i, f := range rds.features {
		if ok, err := f.Valid(s[i]); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", s[i], f.Name(), err)
		}
		doc[f.Name()] = s[i]
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding sample: %v", err)
	}
	return data, nil
}

func (rds *redisdataset) newSample(data []byte) (dataset.Sample, error) {
	doc := map[string]float64{}
	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %v", data, err)
	}
	s := make(dataset.Sample, 0, len(rds.features))
	for _, f := range rds.features {
		value, ok := doc[f.Name()]
		if !ok {
			return nil, fmt.Errorf("no value for feature %s", f.Name())
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", value, f.Name(), err)
		}
		s = append(s, value)
	}
	return s, nil
}

func (rds *redisdataset) validateFeatureNames() error {
	seen := make(map[string]bool, len(rds.features))
	for _, f := range rds.features {
		if seen[f.Name()] {
			return fmt.Errorf("several features share the name %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

func (rds *redisdataset) sampleKey(i int) string {
	return fmt.Sprintf("%s:%d", rds.prefix, i)
}

func (rds *redisdataset) countKey() string {
	return fmt.Sprintf("%s:count", rds.prefix)
}
