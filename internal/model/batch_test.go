package model

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", fmt.Errorf("read a.ts: %w", ErrNotFound), KindNotFound},
		{"too large", fmt.Errorf("%w: a.ts", ErrTooLarge), KindTooLarge},
		{"parse", fmt.Errorf("parse: %w", ErrParseFailure), KindParseFailure},
		{"component", fmt.Errorf("%w: Card", ErrComponentNotFound), KindComponentNotFound},
		{"io", fmt.Errorf("%w: write", ErrIO), KindIO},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestBatchJobState_ConcurrentRecords(t *testing.T) {
	state := NewBatchJobState(OperationFix, 100)

	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			if i%10 == 0 {
				state.RecordFailure(FileError{Path: Path(fmt.Sprintf("f%d.ts", i)), Kind: KindIO})
				return
			}

			state.RecordSuccess()
		}(i)
	}

	wg.Wait()

	snapshot := state.Snapshot("last.ts")
	assert.Equal(t, OperationFix, snapshot.Operation)
	assert.Equal(t, 100, snapshot.Total)
	assert.Equal(t, 100, snapshot.Processed)
	assert.Equal(t, 90, snapshot.Succeeded)
	assert.Equal(t, 10, snapshot.Failed)
	assert.Equal(t, Path("last.ts"), snapshot.Current)
	assert.Len(t, state.Errors(), 10)
}

func TestBatchProgress_Percent(t *testing.T) {
	assert.InDelta(t, 1.0, BatchProgress{}.Percent(), 0.0001)
	assert.InDelta(t, 0.25, BatchProgress{Total: 4, Processed: 1}.Percent(), 0.0001)
}

func TestOccurrence_Validate(t *testing.T) {
	assert.NoError(t, Occurrence{Start: 3, End: 6}.Validate(10))
	assert.Error(t, Occurrence{Start: 6, End: 6}.Validate(10))
	assert.Error(t, Occurrence{Start: 8, End: 11}.Validate(10))
}
