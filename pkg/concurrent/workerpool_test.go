// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name          string
		workerCount   int
		expectedCount int
	}{
		{name: "positive worker count", workerCount: 5, expectedCount: 5},
		{name: "zero worker count defaults to one", workerCount: 0, expectedCount: 1},
		{name: "negative worker count defaults to one", workerCount: -3, expectedCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := NewWorkerPool(tt.workerCount)
			require.NotNil(t, wp)
			assert.Equal(t, tt.expectedCount, wp.workerCount)
		})
	}
}

func TestWorkerPoolRun(t *testing.T) {
	t.Run("runs all functions", func(t *testing.T) {
		wp := NewWorkerPool(3)
		var counter atomic.Int64

		fns := make([]func() error, 10)
		for i := range fns {
			fns[i] = func() error {
				counter.Add(1)
				return nil
			}
		}

		err := wp.Run(context.Background(), fns...)
		require.NoError(t, err)
		assert.Equal(t, int64(10), counter.Load())
	})

	t.Run("returns first error", func(t *testing.T) {
		wp := NewWorkerPool(1)
		boom := errors.New("boom")

		err := wp.Run(context.Background(),
			func() error { return nil },
			func() error { return boom },
		)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no functions is a no-op", func(t *testing.T) {
		wp := NewWorkerPool(2)
		assert.NoError(t, wp.Run(context.Background()))
	})
}

func TestWorkerPoolRunAll(t *testing.T) {
	t.Run("collects all errors without cancelling", func(t *testing.T) {
		wp := NewWorkerPool(2)
		var counter atomic.Int64

		errs := wp.RunAll(context.Background(),
			func() error { counter.Add(1); return errors.New("first") },
			func() error { counter.Add(1); return nil },
			func() error { counter.Add(1); return errors.New("second") },
		)

		assert.Len(t, errs, 2)
		assert.Equal(t, int64(3), counter.Load())
	})

	t.Run("no errors returns nil slice", func(t *testing.T) {
		wp := NewWorkerPool(2)
		errs := wp.RunAll(context.Background(), func() error { return nil })
		assert.Nil(t, errs)
	})
}
