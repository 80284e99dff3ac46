package config

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfilter/errors"
)

// MockKeyValue implements KeyValueGetter for testing
type MockKeyValue struct {
	mock.Mock
}

func (m *MockKeyValue) Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	args := m.Called(ctx, key)
	if entry := args.Get(0); entry != nil {
		return entry.(jetstream.KeyValueEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockKeyValueEntry implements jetstream.KeyValueEntry for testing
type MockKeyValueEntry struct {
	key       string
	value     []byte
	operation jetstream.KeyValueOp
}

func (m *MockKeyValueEntry) Key() string                     { return m.key }
func (m *MockKeyValueEntry) Value() []byte                   { return m.value }
func (m *MockKeyValueEntry) Revision() uint64                { return 1 }
func (m *MockKeyValueEntry) Operation() jetstream.KeyValueOp { return m.operation }
func (m *MockKeyValueEntry) Created() time.Time              { return time.Now() }
func (m *MockKeyValueEntry) Delta() uint64                   { return 0 }
func (m *MockKeyValueEntry) Bucket() string                  { return "SEMFILTER_CONFIG" }

func put(key, value string) *MockKeyValueEntry {
	return &MockKeyValueEntry{key: key, value: []byte(value), operation: jetstream.KeyValuePut}
}

func TestKVSource_Load(t *testing.T) {
	bucket := &MockKeyValue{}
	bucket.On("Get", mock.Anything, "levels.min").Return(put("levels.min", "6"), nil)
	bucket.On("Get", mock.Anything, "levels.max").Return(nil, jetstream.ErrKeyNotFound)
	bucket.On("Get", mock.Anything, "levels.label").Return(put("levels.label", "plain text"), nil)
	bucket.On("Get", mock.Anything, "levels.mode").Return(
		&MockKeyValueEntry{key: "levels.mode", value: []byte(`"bind"`), operation: jetstream.KeyValueDelete}, nil)

	c := newLevelConfig("levels")
	n, err := NewKVSource(bucket, nil).Load(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lo, _ := c.Min.Get()
	assert.Equal(t, 6, lo)
	label, _ := c.Label.Get()
	assert.Equal(t, "plain text", label)
	assert.False(t, c.Max.IsSet())
	assert.False(t, c.Mode.IsSet())
	bucket.AssertExpectations(t)
}

func TestKVSource_FetchErrorIsTransient(t *testing.T) {
	bucket := &MockKeyValue{}
	bucket.On("Get", mock.Anything, "levels.min").Return(nil, stderrors.New("nats: timeout"))

	_, err := NewKVSource(bucket, nil).Load(context.Background(), newLevelConfig("levels"))
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

func TestKVSource_DecodeErrorIsInvalid(t *testing.T) {
	bucket := &MockKeyValue{}
	bucket.On("Get", mock.Anything, "levels.min").Return(put("levels.min", `"many"`), nil)
	bucket.On("Get", mock.Anything, mock.Anything).Return(nil, jetstream.ErrKeyNotFound)

	_, err := NewKVSource(bucket, nil).Load(context.Background(), newLevelConfig("levels"))
	assert.ErrorIs(t, err, errors.ErrInvalidOptionValue)
}

func TestKVSource_ScalarTextForStringOptions(t *testing.T) {
	for _, raw := range []string{"true", "42", "null", "1.5"} {
		t.Run(raw, func(t *testing.T) {
			bucket := &MockKeyValue{}
			bucket.On("Get", mock.Anything, "levels.label").Return(put("levels.label", raw), nil)
			bucket.On("Get", mock.Anything, mock.Anything).Return(nil, jetstream.ErrKeyNotFound)

			c := newLevelConfig("levels")
			_, err := NewKVSource(bucket, nil).Load(context.Background(), c)
			require.NoError(t, err)
			label, err := c.Label.Get()
			require.NoError(t, err)
			assert.Equal(t, raw, label)
		})
	}
}

func TestKVSource_Key(t *testing.T) {
	s := NewKVSource(&MockKeyValue{}, nil)
	assert.Equal(t, "saturnin.proto.filter_service.include_expr", s.Key("saturnin.proto.filter_service", "include_expr"))
}
