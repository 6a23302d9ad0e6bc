package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/api"
	"github.com/mikey/spam-classifier/internal/adapters/gmail"
	"github.com/mikey/spam-classifier/internal/adapters/mailparse"
	"github.com/mikey/spam-classifier/internal/adapters/modelstore"
	"github.com/mikey/spam-classifier/internal/adapters/smtpintake"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
)

func newConfig(values map[string]interface{}) *config.Config {
	v := config.NewEmptyViper()
	for k, val := range values {
		v.Set(k, val)
	}
	return config.NewFromViper(v)
}

func TestCreateModelStore(t *testing.T) {
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		values map[string]interface{}
		check  func(t *testing.T, store modelstore.Store)
	}{
		{
			name:   "file",
			values: map[string]interface{}{"model.store": "file", "model.path": filepath.Join(dir, "model.zip")},
			check: func(t *testing.T, store modelstore.Store) {
				assert.IsType(t, &modelstore.FileStore{}, store)
			},
		},
		{
			name:   "sqlite",
			values: map[string]interface{}{"model.store": "sqlite", "model.sqlite_path": filepath.Join(dir, "db", "models.db")},
			check: func(t *testing.T, store modelstore.Store) {
				assert.IsType(t, &modelstore.SQLStore{}, store)
				assert.FileExists(t, filepath.Join(dir, "db", "models.db"))
			},
		},
		{
			name:   "redis",
			values: map[string]interface{}{"model.store": "redis", "model.redis_addr": mr.Addr()},
			check: func(t *testing.T, store modelstore.Store) {
				assert.IsType(t, &modelstore.RedisStore{}, store)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewStoreFactory(newConfig(tt.values), zap.NewNop())
			store, err := f.CreateModelStore(context.Background())
			require.NoError(t, err)
			defer store.Close()

			tt.check(t, store)

			// A fresh store has no model
			_, err = store.Load(context.Background())
			assert.ErrorIs(t, err, core.ErrModelNotFound)
		})
	}
}

func TestCreateModelStoreUnsupported(t *testing.T) {
	f := NewStoreFactory(newConfig(map[string]interface{}{"model.store": "s3"}), zap.NewNop())
	_, err := f.CreateModelStore(context.Background())
	assert.EqualError(t, err, "unsupported model store: s3")
}

func TestCreateTrainer(t *testing.T) {
	f := NewTrainerFactory(newConfig(map[string]interface{}{
		"dataset.path":       "/tmp/data.tsv",
		"training.hash_bits": 10,
	}), zap.NewNop())

	assert.NotNil(t, f.CreateTrainer())
	assert.Equal(t, "/tmp/data.tsv", f.DatasetPath())
}

func TestCreateMailSource(t *testing.T) {
	ctx := context.Background()

	// Files
	f := NewSourceFactory(newConfig(nil), zap.NewNop())
	src, err := f.CreateMailSource(ctx, "files", []string{t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &mailparse.FileSource{}, src)

	_, err = f.CreateMailSource(ctx, "files", nil)
	assert.Error(t, err)

	// Gmail needs a token
	_, err = f.CreateMailSource(ctx, "gmail", nil)
	assert.Error(t, err)

	f = NewSourceFactory(newConfig(map[string]interface{}{"gmail.access_token": "token"}), zap.NewNop())
	src, err = f.CreateMailSource(ctx, "gmail", nil)
	require.NoError(t, err)
	assert.IsType(t, &gmail.Source{}, src)

	_, err = f.CreateMailSource(ctx, "imap", nil)
	assert.EqualError(t, err, "unsupported mail source: imap")
}

func TestCreateServers(t *testing.T) {
	logger := zap.NewNop()
	service := core.NewSpamFilterService(nil, nil, "", logger)
	aggregator := core.NewAggregator(service, 1, false, logger)

	// API only by default
	f := NewServerFactory(newConfig(nil), logger, service, aggregator)
	servers := f.CreateServers()
	require.Len(t, servers, 1)
	assert.IsType(t, &api.Server{}, servers[0])

	// SMTP intake when enabled
	f = NewServerFactory(newConfig(map[string]interface{}{"smtp.enabled": true}), logger, service, aggregator)
	servers = f.CreateServers()
	require.Len(t, servers, 2)
	assert.IsType(t, &smtpintake.Intake{}, servers[1])
}
