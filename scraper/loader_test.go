package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapreviews/config"
	"mapreviews/models"
)

// fakeControl is an expander control with scripted click behaviour.
type fakeControl struct {
	clicks int
	fail   bool
}

func (c *fakeControl) Click(time.Duration) bool {
	c.clicks++
	return !c.fail
}

// fakeWidget scripts the widget's observable behaviour. ItemCount
// walks counts and then repeats the last value; Expanders pops one
// batch per query and then reports empty.
type fakeWidget struct {
	counts   []int
	countIdx int

	batches    [][]*fakeControl
	batchIdx   int
	queryCalls int

	engages int
	settles int
}

func (w *fakeWidget) Settle(time.Duration) { w.settles++ }

func (w *fakeWidget) ItemCount() int {
	if len(w.counts) == 0 {
		return 0
	}
	if w.countIdx >= len(w.counts) {
		return w.counts[len(w.counts)-1]
	}
	n := w.counts[w.countIdx]
	w.countIdx++
	return n
}

func (w *fakeWidget) EngageLastItem(time.Duration) bool {
	w.engages++
	return true
}

func (w *fakeWidget) Expanders() []interactable {
	w.queryCalls++
	if w.batchIdx >= len(w.batches) {
		return nil
	}
	batch := w.batches[w.batchIdx]
	w.batchIdx++
	out := make([]interactable, len(batch))
	for i, c := range batch {
		out[i] = c
	}
	return out
}

func loaderConfig() config.HarvestConfig {
	return config.HarvestConfig{
		LoadSettle:      time.Millisecond,
		ClickTimeout:    time.Millisecond,
		ClickSettle:     time.Millisecond,
		MaxLoadAttempts: 100,
		MinExpandPasses: 10,
		MaxExpandPasses: 60,
	}
}

func TestLoadAllItems_ConvergesWhenCountStabilizes(t *testing.T) {
	// Count polls see [3, 3]: the second observation matches the
	// first, so the loop stops on the first comparison that agrees.
	w := &fakeWidget{counts: []int{3, 3}}

	n, err := loadAllItems(context.Background(), w, loaderConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, w.engages, "one engagement per poll")
	assert.Equal(t, 2, w.settles)
}

func TestLoadAllItems_EmptyListConvergesImmediately(t *testing.T) {
	// prev starts at 0, so a widget with no items converges on the
	// very first poll.
	w := &fakeWidget{counts: []int{0}}

	n, err := loadAllItems(context.Background(), w, loaderConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, w.engages)
}

func TestLoadAllItems_GrowingList(t *testing.T) {
	w := &fakeWidget{counts: []int{5, 11, 20, 20}}

	n, err := loadAllItems(context.Background(), w, loaderConfig())
	require.NoError(t, err)
	assert.Equal(t, 20, n)
	assert.Equal(t, 4, w.engages)
}

func TestLoadAllItems_NeverConvergesHitsCeiling(t *testing.T) {
	// A strictly growing count sequence never satisfies the
	// convergence test; the attempts ceiling must turn that into an
	// explicit error.
	counts := make([]int, 200)
	for i := range counts {
		counts[i] = i + 1
	}
	w := &fakeWidget{counts: counts}

	cfg := loaderConfig()
	cfg.MaxLoadAttempts = 5

	_, err := loadAllItems(context.Background(), w, cfg)
	require.Error(t, err)

	var he *models.HarvestError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, models.ErrCodeLoadNotConverged, he.Code)
}

func TestLoadAllItems_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &fakeWidget{counts: []int{3, 4, 5}}
	_, err := loadAllItems(ctx, w, loaderConfig())
	require.Error(t, err)

	var he *models.HarvestError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, models.ErrCodeTimeout, he.Code)
	assert.Zero(t, w.engages, "no interaction after the deadline")
}
