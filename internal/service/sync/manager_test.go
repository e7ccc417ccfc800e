package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// countRecorder потокобезопасные счётчики для проверок в тестах
type countRecorder struct {
	mu        sync.Mutex
	succeeded int
	failed    int
	skipped   int
	stale     int
	cancelled int
}

func (r *countRecorder) SaveSucceeded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded++
}

func (r *countRecorder) SaveFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *countRecorder) SaveSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func (r *countRecorder) StaleResponseDiscarded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stale++
}

func (r *countRecorder) RequestCancelled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled++
}

func (r *countRecorder) snapshot() countRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return countRecorder{
		succeeded: r.succeeded,
		failed:    r.failed,
		skipped:   r.skipped,
		stale:     r.stale,
		cancelled: r.cancelled,
	}
}

// fixture хранилище-заглушка: Build читает текущий черновик,
// Submit возвращает его же как канонический ответ
type fixture struct {
	mu         sync.Mutex
	payload    string
	buildErr   error
	submitErr  error
	submitted  []string
	reconciled []string
}

func (f *fixture) setPayload(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payload = p
}

func (f *fixture) setSubmitErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitErr = err
}

func (f *fixture) submits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submitted...)
}

func (f *fixture) reconciles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reconciled...)
}

func (f *fixture) hooks() Hooks[string, string] {
	return Hooks[string, string]{
		Build: func(id string) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.buildErr != nil {
				return "", f.buildErr
			}
			return f.payload, nil
		},
		Submit: func(ctx context.Context, id string, payload string) (string, error) {
			f.mu.Lock()
			err := f.submitErr
			f.mu.Unlock()
			if err != nil {
				return "", err
			}
			f.mu.Lock()
			f.submitted = append(f.submitted, payload)
			f.mu.Unlock()
			return payload, nil
		},
		Reconcile: func(id string, result string) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.reconciled = append(f.reconciled, result)
			return nil
		},
	}
}

func waitForStatus(t *testing.T, m *Manager[string, string], id string, status domain.SyncStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return m.State(id).Status == status
	}, time.Second, 5*time.Millisecond)
}

func TestManager_DebounceCoalescesEdits(t *testing.T) {
	f := &fixture{}
	m := NewManager(20*time.Millisecond, f.hooks(), nopLogger{}, nil, nil)
	defer m.Close()

	// Три правки внутри окна тишины
	f.setPayload("v1")
	m.MarkDirty("insp-1")
	f.setPayload("v2")
	m.MarkDirty("insp-1")
	f.setPayload("v3")
	m.MarkDirty("insp-1")

	waitForStatus(t, m, "insp-1", domain.SyncSaved)

	// Уходит ровно один запрос, и он несёт финальное состояние
	assert.Equal(t, []string{"v3"}, f.submits())
	assert.Equal(t, []string{"v3"}, f.reconciles())
}

func TestManager_SkipsUnchangedPayload(t *testing.T) {
	f := &fixture{}
	rec := &countRecorder{}
	m := NewManager(10*time.Millisecond, f.hooks(), nopLogger{}, rec, nil)
	defer m.Close()

	f.setPayload("v1")
	m.MarkDirty("insp-1")
	waitForStatus(t, m, "insp-1", domain.SyncSaved)

	// Правка, вернувшая состояние к последнему сохранённому снимку
	m.MarkDirty("insp-1")
	require.Eventually(t, func() bool {
		return rec.snapshot().skipped == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"v1"}, f.submits())
	assert.Equal(t, domain.SyncSaved, m.State("insp-1").Status)
}

func TestManager_InvalidDraftNeverSubmitted(t *testing.T) {
	f := &fixture{buildErr: errors.New("blocks overlap")}
	m := NewManager(10*time.Millisecond, f.hooks(), nopLogger{}, nil, nil)
	defer m.Close()

	require.NoError(t, m.Retry("insp-1"))

	assert.Equal(t, domain.SyncIdle, m.State("insp-1").Status)
	assert.Empty(t, f.submits())
}

func TestManager_NewerEditSupersedesInFlight(t *testing.T) {
	rec := &countRecorder{}

	var mu sync.Mutex
	payload := "v1"
	release := make(chan struct{})
	var reconciled []string

	hooks := Hooks[string, string]{
		Build: func(id string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			return payload, nil
		},
		// Транспорт игнорирует отмену: первый ответ приходит поздно и
		// успешным, но его версия уже устарела
		Submit: func(ctx context.Context, id string, p string) (string, error) {
			if p == "v1" {
				<-release
			}
			return p, nil
		},
		Reconcile: func(id string, result string) error {
			mu.Lock()
			defer mu.Unlock()
			reconciled = append(reconciled, result)
			return nil
		},
	}

	m := NewManager(10*time.Millisecond, hooks, nopLogger{}, rec, nil)
	defer m.Close()

	require.NoError(t, m.Retry("insp-1"))
	assert.Equal(t, domain.SyncSaving, m.State("insp-1").Status)

	// Вторая правка, пока первый запрос висит в полёте
	mu.Lock()
	payload = "v2"
	mu.Unlock()
	require.NoError(t, m.Retry("insp-1"))

	waitForStatus(t, m, "insp-1", domain.SyncSaved)

	// Теперь первый запрос возвращается с успехом, но он устарел
	close(release)
	require.Eventually(t, func() bool {
		return rec.snapshot().stale == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"v2"}, reconciled)
	assert.Equal(t, domain.SyncSaved, m.State("insp-1").Status)
	assert.Equal(t, 1, rec.snapshot().cancelled)
}

func TestManager_CancellationIsNotAnError(t *testing.T) {
	rec := &countRecorder{}

	hooks := Hooks[string, string]{
		Build: func(id string) (string, error) { return "v1", nil },
		Submit: func(ctx context.Context, id string, p string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
		Reconcile: func(id string, result string) error { return nil },
	}

	m := NewManager(10*time.Millisecond, hooks, nopLogger{}, rec, nil)

	require.NoError(t, m.Retry("insp-1"))
	assert.Equal(t, domain.SyncSaving, m.State("insp-1").Status)

	m.Close()

	require.Eventually(t, func() bool {
		return rec.snapshot().cancelled == 1
	}, time.Second, 5*time.Millisecond)

	// Отмена не переводит сессию в ошибку
	assert.NotEqual(t, domain.SyncError, m.State("insp-1").Status)
	assert.Zero(t, rec.snapshot().failed)
}

func TestManager_SaveFailureThenRetry(t *testing.T) {
	f := &fixture{}
	rec := &countRecorder{}
	m := NewManager(10*time.Millisecond, f.hooks(), nopLogger{}, rec, nil)
	defer m.Close()

	f.setPayload("v1")
	f.setSubmitErr(errors.New("store unavailable"))
	m.MarkDirty("insp-1")
	waitForStatus(t, m, "insp-1", domain.SyncError)
	assert.Equal(t, msgSaveFailed, m.State("insp-1").Message)

	// Пользователь продолжил редактировать после ошибки: retry несёт
	// текущее состояние, а не нагрузку упавшего запроса
	f.setSubmitErr(nil)
	f.setPayload("v2")
	require.NoError(t, m.Retry("insp-1"))

	waitForStatus(t, m, "insp-1", domain.SyncSaved)
	assert.Equal(t, []string{"v2"}, f.submits())
	assert.Equal(t, 1, rec.snapshot().failed)
	assert.Equal(t, 1, rec.snapshot().succeeded)
}

func TestManager_CloseStopsPendingTimer(t *testing.T) {
	f := &fixture{}
	m := NewManager(20*time.Millisecond, f.hooks(), nopLogger{}, nil, nil)

	f.setPayload("v1")
	m.MarkDirty("insp-1")
	m.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.submits())

	// Остановленный менеджер игнорирует новые правки
	m.MarkDirty("insp-1")
	require.ErrorIs(t, m.Retry("insp-1"), ErrClosed)
}

func TestManager_StateListenerReceivesTransitions(t *testing.T) {
	f := &fixture{}

	var mu sync.Mutex
	var seen []domain.SyncStatus
	listener := func(inspectorID string, state domain.SyncState) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, state.Status)
	}

	m := NewManager(10*time.Millisecond, f.hooks(), nopLogger{}, nil, listener)
	defer m.Close()

	f.setPayload("v1")
	m.MarkDirty("insp-1")
	waitForStatus(t, m, "insp-1", domain.SyncSaved)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []domain.SyncStatus{domain.SyncSaving, domain.SyncSaved}, seen)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	f := &fixture{}
	m := NewManager(10*time.Millisecond, f.hooks(), nopLogger{}, nil, nil)
	defer m.Close()

	f.setPayload("v1")
	m.MarkDirty("insp-1")
	m.MarkDirty("insp-2")

	waitForStatus(t, m, "insp-1", domain.SyncSaved)
	waitForStatus(t, m, "insp-2", domain.SyncSaved)

	states := m.States()
	require.Len(t, states, 2)
	assert.Equal(t, domain.SyncSaved, states["insp-1"].Status)
	assert.Equal(t, domain.SyncSaved, states["insp-2"].Status)

	// Незатронутая сущность остаётся idle
	assert.Equal(t, domain.SyncIdle, m.State("insp-3").Status)
}
