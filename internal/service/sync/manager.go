package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const msgSaveFailed = "не удалось сохранить расписание, попробуйте ещё раз"

// ErrClosed возвращается при обращении к остановленному менеджеру
var ErrClosed = errors.New("sync manager is closed")

// Hooks связывает универсальный механизм синхронизации с предметной областью.
// Правило "debounce + отмена + проверка версии" живёт только в менеджере;
// хуки отвечают за сборку полезной нагрузки, отправку и сверку ответа.
type Hooks[P, R any] struct {
	// Build собирает исходящую полезную нагрузку из ТЕКУЩЕГО локального
	// состояния сущности. Ошибка (например, не прошла валидация) отменяет
	// отправку: невалидные черновики никогда не уходят в сеть
	Build func(id string) (P, error)

	// Submit выполняет сетевой запрос. Отмена контекста должна
	// возвращаться как context.Canceled, а не как ошибка транспорта
	Submit func(ctx context.Context, id string, payload P) (R, error)

	// Reconcile применяет канонический ответ хранилища к локальному состоянию
	Reconcile func(id string, result R) error
}

// session независимая машина состояний одного инспектора
// Таймер, отмена и счётчик версий никогда не разделяются между сессиями
type session struct {
	timer     *time.Timer
	cancel    context.CancelFunc
	version   uint64
	lastSaved []byte
	state     domain.SyncState
}

// Manager координатор отложенной синхронизации: по одной сессии на
// сущность, trailing-edge debounce, отмена устаревших запросов и
// отбрасывание устаревших ответов по номеру версии.
//
// Гарантия упорядочивания: для одной сущности эффект более нового
// запроса никогда не перетирается более старым ответом, даже если тот
// завершился позже. Между разными сущностями порядок не определён.
type Manager[P, R any] struct {
	mu       sync.Mutex
	debounce time.Duration
	hooks    Hooks[P, R]
	log      Logger
	rec      Recorder
	onState  StateListener
	sessions map[string]*session
	closed   bool
}

// NewManager создает новый менеджер синхронизации
// listener и rec могут быть nil
func NewManager[P, R any](debounce time.Duration, hooks Hooks[P, R], log Logger, rec Recorder, listener StateListener) *Manager[P, R] {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Manager[P, R]{
		debounce: debounce,
		hooks:    hooks,
		log:      log,
		rec:      rec,
		onState:  listener,
		sessions: make(map[string]*session),
	}
}

// MarkDirty отмечает сущность изменённой и (пере)запускает окно debounce.
// Каждая новая правка внутри окна переводит таймер заново: запрос уйдёт
// один раз, когда правки затихнут, и понесёт финальное состояние
func (m *Manager[P, R]) MarkDirty(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	s := m.ensureSession(id)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(m.debounce, func() {
		m.fire(id)
	})
}

// Retry немедленно повторяет сохранение из ТЕКУЩЕГО локального состояния,
// а не из полезной нагрузки упавшего запроса: пользователь мог продолжить
// редактирование после ошибки
func (m *Manager[P, R]) Retry(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.fireLocked(id)
	return nil
}

// State возвращает статус сохранения сущности, для незатронутых это idle
func (m *Manager[P, R]) State(id string) domain.SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s.state
	}
	return domain.SyncState{Status: domain.SyncIdle}
}

// States возвращает статусы всех сущностей, у которых была активность
func (m *Manager[P, R]) States() map[string]domain.SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]domain.SyncState, len(m.sessions))
	for id, s := range m.sessions {
		out[id] = s.state
	}
	return out
}

// Close детерминированно останавливает все сессии: гасит таймеры и
// отменяет запросы в полёте, чтобы не было поздних записей в уже
// разобранную сессию редактирования
func (m *Manager[P, R]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for id, s := range m.sessions {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
			m.log.Info("Close: cancelled in-flight save for inspector_id=%s", id)
		}
	}
}

// fire вызывается таймером debounce по истечении окна тишины
func (m *Manager[P, R]) fire(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.fireLocked(id)
}

// fireLocked переход Pending → InFlight; вызывается под m.mu
func (m *Manager[P, R]) fireLocked(id string) {
	s := m.ensureSession(id)
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	// 1. Собираем полезную нагрузку из текущего состояния; невалидный
	// черновик не отправляем и возвращаемся в Idle
	payload, err := m.hooks.Build(id)
	if err != nil {
		m.log.Warn("fire: payload rejected, save skipped: inspector_id=%s, error=%v", id, err)
		m.setState(id, s, domain.SyncState{Status: domain.SyncIdle})
		return
	}

	// 2. Сравниваем со снимком последнего успешного сохранения:
	// идентичную нагрузку повторно не отправляем
	raw, err := json.Marshal(payload)
	if err != nil {
		m.log.Error("fire: failed to serialize payload: inspector_id=%s, error=%v", id, err)
		m.setState(id, s, domain.SyncState{Status: domain.SyncError, Message: msgSaveFailed})
		return
	}
	if s.lastSaved != nil && bytes.Equal(s.lastSaved, raw) {
		m.log.Info("fire: payload unchanged since last save, skipping: inspector_id=%s", id)
		m.rec.SaveSkipped()
		return
	}

	// 3. Новый запрос всегда отменяет предыдущий запрос этого же
	// инспектора: на уровне транспорта не гоняем два сохранения разом
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		m.rec.RequestCancelled()
		m.log.Info("fire: superseding in-flight save: inspector_id=%s", id)
	}

	// 4. Захватываем новую версию как идентичность запроса
	s.version++
	version := s.version

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	m.setState(id, s, domain.SyncState{Status: domain.SyncSaving})

	go func() {
		result, err := m.hooks.Submit(ctx, id, payload)
		m.complete(id, version, raw, result, err)
	}()
}

// complete переход InFlight → Reconciled | Failed
func (m *Manager[P, R]) complete(id string, version uint64, raw []byte, result R, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return
	}

	// Ответ устаревшего запроса молча отбрасывается: более новый запрос
	// уже перехватил идентичность сессии, и этот результат ничего не значит
	if s.version != version {
		if err == nil || !errors.Is(err, context.Canceled) {
			m.rec.StaleResponseDiscarded()
			m.log.Info("complete: discarding stale response: inspector_id=%s, version=%d, current=%d",
				id, version, s.version)
		}
		return
	}

	// Намеренная отмена не считается ошибкой: статус не меняется
	if err != nil && errors.Is(err, context.Canceled) {
		m.rec.RequestCancelled()
		return
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if err != nil {
		m.rec.SaveFailed()
		m.log.Error("complete: save failed: inspector_id=%s, version=%d, error=%v", id, version, err)
		m.setState(id, s, domain.SyncState{Status: domain.SyncError, Message: msgSaveFailed})
		return
	}

	if err := m.hooks.Reconcile(id, result); err != nil {
		m.rec.SaveFailed()
		m.log.Error("complete: reconcile failed: inspector_id=%s, error=%v", id, err)
		m.setState(id, s, domain.SyncState{Status: domain.SyncError, Message: msgSaveFailed})
		return
	}

	s.lastSaved = raw
	m.rec.SaveSucceeded()
	m.log.Info("complete: save reconciled: inspector_id=%s, version=%d", id, version)
	m.setState(id, s, domain.SyncState{Status: domain.SyncSaved})
}

func (m *Manager[P, R]) ensureSession(id string) *session {
	s, ok := m.sessions[id]
	if !ok {
		s = &session{state: domain.SyncState{Status: domain.SyncIdle}}
		m.sessions[id] = s
	}
	return s
}

func (m *Manager[P, R]) setState(id string, s *session, state domain.SyncState) {
	s.state = state
	if m.onState != nil {
		m.onState(id, state)
	}
}
