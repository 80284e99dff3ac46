package config

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/semfilter/errors"
)

// KeyValueGetter is the part of jetstream.KeyValue used by KVSource
type KeyValueGetter interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
}

// KVSource loads option values from a NATS KV bucket. Each option is stored
// under "<config name>.<option name>"; values are JSON, and values that are
// not valid JSON are taken as plain strings.
type KVSource struct {
	bucket  KeyValueGetter
	loader  *Loader
	timeout time.Duration
}

// NewKVSource creates a source over a bucket. A nil loader uses NewLoader(nil).
func NewKVSource(bucket KeyValueGetter, loader *Loader) *KVSource {
	if loader == nil {
		loader = NewLoader(nil)
	}
	return &KVSource{
		bucket:  bucket,
		loader:  loader,
		timeout: 5 * time.Second,
	}
}

// Key returns the bucket key of an option
func (s *KVSource) Key(configName, optionName string) string {
	return configName + "." + optionName
}

// Load fetches every option of c that is present in the bucket and returns
// the number of options applied. Missing keys are skipped.
func (s *KVSource) Load(ctx context.Context, c Configurable) (int, error) {
	base := c.Base()
	values := make(map[string]any)

	for _, opt := range base.Options() {
		key := s.Key(base.Name(), opt.Name())
		raw, ok, err := s.get(ctx, key)
		if err != nil {
			return 0, err
		}
		if ok {
			values[opt.Name()] = raw
		}
	}

	if err := s.loader.Load(c, values); err != nil {
		return 0, err
	}
	s.loader.logger.Debug("Loaded config from KV", "config", base.Name(), "options", len(values))
	return len(values), nil
}

func (s *KVSource) get(ctx context.Context, key string) (any, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entry, err := s.bucket.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, errors.WrapTransient(fmt.Errorf("kv get %s: %w", key, err),
			"KVSource", "Load", "fetch option")
	}
	if entry == nil || entry.Operation() != jetstream.KeyValuePut {
		return nil, false, nil
	}

	// JSON null keeps its text; deleting the key is how a value is removed
	var value any
	if err := json.Unmarshal(entry.Value(), &value); err != nil || value == nil {
		return string(entry.Value()), true, nil
	}
	return value, true, nil
}
