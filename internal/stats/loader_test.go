package stats_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"video_search_web/internal/mocks"
	"video_search_web/internal/stats"
	"video_search_web/internal/storage"
	"video_search_web/pkg"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func found(sessionID string) *pkg.StatsResponse {
	return &pkg.StatsResponse{
		SessionID: sessionID,
		Found:     true,
		Stats: &pkg.StatsBlob{
			Command: &pkg.Command{SuccessRate: pkg.Float(0.73)},
		},
	}
}

func newLoader(m *mocks.StatsMock) (*stats.Loader, storage.Store) {
	store := storage.NewMemoryStore(time.Minute)
	return stats.NewLoader(m, store, zerolog.Nop()), store
}

func TestToggle_FetchesOnceThenFlips(t *testing.T) {
	m := &mocks.StatsMock{Responses: map[string]*pkg.StatsResponse{"s1": found("s1")}}
	l, _ := newLoader(m)
	ctx := context.Background()

	e, err := l.Toggle(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, e.Open)
	assert.False(t, e.Loading)
	assert.Empty(t, e.Error)
	require.True(t, e.Cached())
	assert.InDelta(t, 0.73, *e.Response.Stats.Command.SuccessRate, 1e-9)

	for i := 0; i < 5; i++ {
		e, err = l.Toggle(ctx, "p1", "s1")
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, e.Open)
	}
	assert.Equal(t, 1, m.Calls("s1"))
}

func TestToggle_ConcurrentClicksFetchOnce(t *testing.T) {
	m := &mocks.StatsMock{
		Delay:     50 * time.Millisecond,
		Responses: map[string]*pkg.StatsResponse{"s1": found("s1")},
	}
	l, store := newLoader(m)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Toggle(ctx, "p1", "s1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.Calls("s1"))
	st, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, st.Entry("s1").Cached())
	assert.False(t, st.Entry("s1").Loading)
}

func TestToggle_NotFoundIsCachedAndOpen(t *testing.T) {
	m := &mocks.StatsMock{}
	l, _ := newLoader(m)

	e, err := l.Toggle(context.Background(), "p1", "s404")
	require.NoError(t, err)
	assert.True(t, e.Open)
	require.True(t, e.Cached())
	assert.False(t, e.Response.HasStats())
}

func TestToggle_ErrorKeepsPanelClosedAndAllowsRetry(t *testing.T) {
	m := &mocks.StatsMock{FailStatus: http.StatusInternalServerError, FailBody: "elasticsearch down"}
	l, _ := newLoader(m)
	ctx := context.Background()

	e, err := l.Toggle(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.False(t, e.Open)
	assert.False(t, e.Loading)
	assert.Equal(t, "elasticsearch down", e.Error)
	assert.False(t, e.Cached())

	// nothing was cached, so the next click fetches again
	m.FailStatus = 0
	m.Responses = map[string]*pkg.StatsResponse{"s1": found("s1")}
	e, err = l.Toggle(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, e.Open)
	assert.Empty(t, e.Error)
	assert.Equal(t, 2, m.Calls("s1"))
}

func TestToggle_EmptyBodyFallsBackToStatus(t *testing.T) {
	m := &mocks.StatsMock{FailStatus: http.StatusNotFound}
	l, _ := newLoader(m)

	e, err := l.Toggle(context.Background(), "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "HTTP 404 Not Found", e.Error)
}

func TestToggle_CardsAreIndependent(t *testing.T) {
	m := &mocks.StatsMock{Responses: map[string]*pkg.StatsResponse{"ok": found("ok")}}
	l, store := newLoader(m)
	ctx := context.Background()

	_, err := l.Toggle(ctx, "p1", "ok")
	require.NoError(t, err)

	m.Fail = true
	_, err = l.Toggle(ctx, "p1", "bad")
	require.NoError(t, err)

	st, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, st.Entry("ok").Open)
	assert.Empty(t, st.Entry("ok").Error)
	assert.NotEmpty(t, st.Entry("bad").Error)
	assert.False(t, st.Entry("bad").Open)
}

func TestToggle_LoadingAndErrorNeverTogether(t *testing.T) {
	m := &mocks.StatsMock{Fail: true, Delay: 30 * time.Millisecond}
	l, store := newLoader(m)
	ctx := context.Background()

	// first attempt leaves an error behind
	_, err := l.Toggle(ctx, "p1", "s1")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = l.Toggle(ctx, "p1", "s1")
	}()

	for {
		st, err := store.Load(ctx, "p1")
		require.NoError(t, err)
		e := st.Entry("s1")
		assert.False(t, e.Loading && e.Error != "", "loading and error set together")
		select {
		case <-done:
			return
		default:
			time.Sleep(2 * time.Millisecond)
		}
	}
}

func TestToggle_EmptySessionID(t *testing.T) {
	l, _ := newLoader(&mocks.StatsMock{})
	_, err := l.Toggle(context.Background(), "p1", "")
	assert.Error(t, err)
}

func TestToggle_SharedFetchSurvivesOtherPageCancel(t *testing.T) {
	m := &mocks.StatsMock{
		Delay:     100 * time.Millisecond,
		Responses: map[string]*pkg.StatsResponse{"s1": found("s1")},
	}
	l, store := newLoader(m)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = l.Toggle(ctxA, "pageA", "s1")
	}()
	time.Sleep(20 * time.Millisecond)

	var entryB storage.StatsEntry
	go func() {
		defer wg.Done()
		var err error
		entryB, err = l.Toggle(context.Background(), "pageB", "s1")
		assert.NoError(t, err)
	}()
	time.Sleep(20 * time.Millisecond)

	// page A navigates away while both are waiting on the same fetch
	cancelA()
	wg.Wait()

	assert.Equal(t, 1, m.Calls("s1"))
	assert.True(t, entryB.Open)
	assert.Empty(t, entryB.Error)
	require.True(t, entryB.Cached())

	st, err := store.Load(context.Background(), "pageB")
	require.NoError(t, err)
	assert.True(t, st.Entry("s1").Open)
	assert.Empty(t, st.Entry("s1").Error)
	assert.False(t, st.Entry("s1").Loading)
}

func seedEntry(t *testing.T, store storage.Store, pageID, sessionID string, e storage.StatsEntry) {
	t.Helper()
	_, err := store.Update(context.Background(), pageID, func(st storage.PageState) (storage.PageState, error) {
		return st.WithEntry(sessionID, e), nil
	})
	require.NoError(t, err)
}

func TestToggle_InFlightLoadingIsNoop(t *testing.T) {
	m := &mocks.StatsMock{Responses: map[string]*pkg.StatsResponse{"s1": found("s1")}}
	l, store := newLoader(m)
	seedEntry(t, store, "p1", "s1", storage.StatsEntry{Loading: true, LoadingSince: time.Now().Unix()})

	e, err := l.Toggle(context.Background(), "p1", "s1")
	require.NoError(t, err)
	assert.True(t, e.Loading)
	assert.Equal(t, 0, m.Calls("s1"))
}

func TestToggle_AbandonedLoadingIsRetried(t *testing.T) {
	m := &mocks.StatsMock{Responses: map[string]*pkg.StatsResponse{"s1": found("s1")}}
	l, store := newLoader(m)
	// a fetch whose final write never landed
	seedEntry(t, store, "p1", "s1", storage.StatsEntry{Loading: true, LoadingSince: time.Now().Add(-time.Minute).Unix()})

	e, err := l.Toggle(context.Background(), "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Calls("s1"))
	assert.False(t, e.Loading)
	assert.Zero(t, e.LoadingSince)
	assert.True(t, e.Open)
	assert.True(t, e.Cached())
}
