package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNoopCache(t *testing.T) {
	ctx := context.Background()

	var c Cache = NewNoopCache()
	require.NotNil(t, c)

	require.NoError(t, c.Set(ctx, "analytics:teacher_overview", map[string]int{"total_texts": 3}, time.Minute))

	// Nothing is retained, every read is a miss
	var dest map[string]int
	err := c.Get(ctx, "analytics:teacher_overview", &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, dest)

	require.NoError(t, c.Delete(ctx, "analytics:teacher_overview", "analytics:class_report:1"))
}
