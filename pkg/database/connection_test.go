package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionsNormalized(t *testing.T) {
	t.Run("zero values take defaults", func(t *testing.T) {
		opts := Options{}.normalized()
		assert.Equal(t, defaultMaxIdleConns, opts.MaxIdleConns)
		assert.Equal(t, defaultMaxOpenConns, opts.MaxOpenConns)
		assert.Equal(t, defaultConnMaxLifetime, opts.ConnMaxLifetime)
		assert.False(t, opts.LogQueries)
	})

	t.Run("explicit values survive", func(t *testing.T) {
		opts := Options{
			MaxIdleConns:    3,
			MaxOpenConns:    25,
			ConnMaxLifetime: 10 * time.Minute,
			LogQueries:      true,
		}.normalized()
		assert.Equal(t, 3, opts.MaxIdleConns)
		assert.Equal(t, 25, opts.MaxOpenConns)
		assert.Equal(t, 10*time.Minute, opts.ConnMaxLifetime)
		assert.True(t, opts.LogQueries)
	})

	t.Run("negative values take defaults", func(t *testing.T) {
		opts := Options{MaxIdleConns: -1, MaxOpenConns: -1, ConnMaxLifetime: -time.Second}.normalized()
		assert.Equal(t, defaultMaxIdleConns, opts.MaxIdleConns)
		assert.Equal(t, defaultMaxOpenConns, opts.MaxOpenConns)
		assert.Equal(t, defaultConnMaxLifetime, opts.ConnMaxLifetime)
	})
}
