package processor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	cutoffs []time.Time
	deleted int64
}

func (d *fakeDeleter) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	d.cutoffs = append(d.cutoffs, cutoff)
	return d.deleted, nil
}

func TestNewPrunerSchedules(t *testing.T) {
	from := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{"daily descriptor", "@daily", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"hourly descriptor", "@hourly", time.Date(2026, 3, 4, 16, 0, 0, 0, time.UTC)},
		{"five fields", "0 3 * * *", time.Date(2026, 3, 5, 3, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPruner(&fakeDeleter{}, time.Hour, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Next(from))
		})
	}
}

func TestNewPrunerRejectsBadInput(t *testing.T) {
	_, err := NewPruner(&fakeDeleter{}, time.Hour, "every tuesday")
	assert.Error(t, err)

	_, err = NewPruner(&fakeDeleter{}, -time.Hour, "@daily")
	assert.Error(t, err)
}

func TestPruneOnce(t *testing.T) {
	deleter := &fakeDeleter{deleted: 7}
	p, err := NewPruner(deleter, 24*time.Hour, "@daily")
	require.NoError(t, err)

	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	n, err := p.PruneOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	require.Len(t, deleter.cutoffs, 1)
	assert.Equal(t, now.Add(-24*time.Hour), deleter.cutoffs[0])
}

func TestPruneDisabled(t *testing.T) {
	deleter := &fakeDeleter{}
	p, err := NewPruner(deleter, 0, "@daily")
	require.NoError(t, err)

	n, err := p.PruneOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, deleter.cutoffs)

	require.NoError(t, p.Start(context.Background()))
	p.Stop()
}

func TestPrunerStartStop(t *testing.T) {
	p, err := NewPruner(&fakeDeleter{}, time.Hour, "@daily")
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))
	assert.Error(t, p.Start(context.Background()))
	p.Stop()
	require.NoError(t, p.Start(context.Background()))
	p.Stop()
}
