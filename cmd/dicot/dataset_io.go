package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/dataset/csv"
	"github.com/pbanos/dicot/dataset/mongodataset"
	"github.com/pbanos/dicot/dataset/redisdataset"
	"github.com/pbanos/dicot/dataset/sqldataset"
	"github.com/pbanos/dicot/dataset/sqldataset/pgadapter"
	"github.com/pbanos/dicot/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/dicot/feature"
	"github.com/rs/zerolog/log"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/redis.v5"
)

// redisSamplesPrefix namespaces every sample key a redis-backed dataset
// uses, so a redis db holds one dataset per the CLI's convention.
const redisSamplesPrefix = "samples"

type samplesBackend interface {
	dataset.Reader
	dataset.Writer
}

func backendLocation(location string) bool {
	return strings.HasPrefix(location, "postgresql://") ||
		strings.HasPrefix(location, "mongodb://") ||
		strings.HasPrefix(location, "redis://") ||
		strings.HasSuffix(location, ".db")
}

func openSamplesBackend(ctx context.Context, location string, features []feature.Feature, create bool) (samplesBackend, error) {
	switch {
	case strings.HasPrefix(location, "postgresql://"):
		log.Info().Str("url", location).Msg("creating PostgreSQL adapter")
		adapter, err := pgadapter.New(location)
		if err != nil {
			return nil, err
		}
		return openSQLDataset(ctx, adapter, features, create)
	case strings.HasPrefix(location, "mongodb://"):
		log.Info().Str("url", location).Msg("dialing MongoDB")
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, fmt.Errorf("dialing MongoDB at %s: %v", location, err)
		}
		log.Info().Msg("opening dataset over MongoDB session")
		return mongodataset.Open(ctx, session, features)
	case strings.HasPrefix(location, "redis://"):
		log.Info().Str("url", location).Msg("connecting to redis")
		rc, err := redisClient(location)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("opening dataset over redis client")
		return redisdataset.Open(ctx, rc, redisSamplesPrefix, features)
	case strings.HasSuffix(location, ".db"):
		log.Info().Str("file", location).Msg("creating SQLite3 adapter")
		adapter, err := sqlite3adapter.New(location)
		if err != nil {
			return nil, err
		}
		return openSQLDataset(ctx, adapter, features, create)
	}
	return nil, fmt.Errorf("cannot tell a samples backend from %q", location)
}

func openSQLDataset(ctx context.Context, adapter sqldataset.Adapter, features []feature.Feature, create bool) (samplesBackend, error) {
	if create {
		log.Info().Msg("creating dataset over SQL adapter")
		return sqldataset.Create(ctx, adapter, features)
	}
	log.Info().Msg("opening dataset over SQL adapter")
	return sqldataset.Open(ctx, adapter, features)
}

func readSamples(ctx context.Context, location string, features []feature.Feature) (dataset.Dataset, error) {
	if backendLocation(location) {
		backend, err := openSamplesBackend(ctx, location, features, false)
		if err != nil {
			return nil, err
		}
		return backend.Read(ctx)
	}
	return csv.ReadDatasetFromFilePath(ctx, location, features)
}

func redisClient(rawurl string) (*redis.Client, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url %s: %v", rawurl, err)
	}
	options := &redis.Options{Addr: u.Host}
	if u.User != nil {
		if password, ok := u.User.Password(); ok {
			options.Password = password
		}
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		db, err := strconv.Atoi(path)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url %s: invalid db number %q", rawurl, path)
		}
		options.DB = db
	}
	return redis.NewClient(options), nil
}
