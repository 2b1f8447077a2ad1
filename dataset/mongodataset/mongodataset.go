/*
Package mongodataset provides a dataset reader and writer implementation
that uses a MongoDB database as backend.

Samples are stored as documents on a samples collection, with one field
per feature holding its numeric value.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const samplesCollectionName = "samples"

// writeBatchSize is the number of written samples buffered before they
// are inserted on the samples collection in a single batch.
const writeBatchSize = 100

/*
Dataset is a dataset.Reader and dataset.Writer that stores its samples
on a MongoDB database.
*/
type Dataset interface {
	dataset.Reader
	dataset.Writer
}

type mongodataset struct {
	session  *mgo.Session
	features []feature.Feature
	pending  []interface{}
	written  int
}

/*
Open takes a MongoDB database session and a slice of feature.Feature
whose last element is the class feature, and returns a Dataset that
works on the samples collection of the default database for that
session or an error if the collection cannot be prepared.
*/
func Open(ctx context.Context, session *mgo.Session, features []feature.Feature) (Dataset, error) {
	mds := &mongodataset{session: session, features: features}
	err := mds.validateFeatureNames()
	if err != nil {
		return nil, err
	}
	err = mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongodataset) Read(ctx context.Context) (dataset.Dataset, error) {
	ds := dataset.Dataset{}
	err := mds.BySample(ctx, func(_ int, s dataset.Sample) (bool, error) {
		ds = append(ds, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (mds *mongodataset) BySample(ctx context.Context, lambda func(int, dataset.Sample) (bool, error)) error {
	iter := mds.samplesCollection().Find(nil).Iter()
	defer iter.Close()
	var doc bson.M
	for i := 0; iter.Next(&doc); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s, err := mds.newSample(doc)
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
	return iter.Err()
}

func (mds *mongodataset) Write(ctx context.Context, s dataset.Sample) error {
	doc, err := mds.newDoc(s)
	if err != nil {
		return err
	}
	mds.pending = append(mds.pending, doc)
	mds.written++
	if len(mds.pending) < writeBatchSize {
		return nil
	}
	return mds.flushPending()
}

func (mds *mongodataset) Flush(ctx context.Context) error {
	if len(mds.pending) == 0 {
		return nil
	}
	return mds.flushPending()
}

func (mds *mongodataset) Count() int {
	return mds.written
}

func (mds *mongodataset) flushPending() error {
	err := mds.samplesCollection().Insert(mds.pending...)
	if err != nil {
		return fmt.Errorf("writing samples: %v", err)
	}
	mds.pending = nil
	return nil
}

func (mds *mongodataset) newDoc(s dataset.Sample) (bson.M, error) {
	if len(s) != len(mds.features) {
		return nil, fmt.Errorf("sample has %d values for %d features", len(s), len(mds.features))
	}
	doc := make(bson.M)
	for i, f := range mds.features {
		if ok, err := f.Valid(s[i]); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", s[i], f.Name(), err)
		}
		doc[f.Name()] = s[i]
	}
	return doc, nil
}

func (mds *mongodataset) newSample(doc bson.M) (dataset.Sample, error) {
	s := make(dataset.Sample, len(mds.features))
	for i, f := range mds.features {
		v, ok := doc[f.Name()]
		if !ok {
			return nil, fmt.Errorf("no value for feature %s", f.Name())
		}
		value, ok := floatValue(v)
		if !ok {
			return nil, fmt.Errorf("expected numeric value for feature %s, got %T", f.Name(), v)
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", value, f.Name(), err)
		}
		s[i] = value
	}
	return s, nil
}

func (mds *mongodataset) validateFeatureNames() error {
	seen := make(map[string]bool, len(mds.features))
	for _, f := range mds.features {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
		if seen[fName] {
			return fmt.Errorf("several features share the name %s", fName)
		}
		seen[fName] = true
	}
	return nil
}

func (mds *mongodataset) ensureIndexes() error {
	for _, f := range mds.features {
		index := mgo.Index{
			Key:        []string{f.Name()},
			Background: true,
			Sparse:     true,
		}
		err := mds.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongodataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}

func floatValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
