package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/schedstore"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

// document пара состояний одного инспектора
// draft содержит оптимистичное локальное состояние, которое правит
// пользователь; confirmed хранит последнее каноническое состояние,
// подтверждённое хранилищем
type document struct {
	draft     *domain.InspectorAvailability
	confirmed *domain.InspectorAvailability
}

// Service сервис редактирования доступности инспекторов
// Владеет in-memory копиями документов; durable-состояние целиком
// делегировано внешнему хранилищу расписаний
type Service struct {
	store        StoreClient
	logger       Logger
	slotDuration int
	defaultGrid  domain.TimeGrid
	now          func() time.Time

	mu       sync.Mutex
	grid     domain.TimeGrid
	viewMode domain.ViewMode
	docs     map[string]*document
	order    []string // порядок инспекторов из ответа хранилища
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(store StoreClient, logger Logger, slotDuration int, defaultGrid domain.TimeGrid) *Service {
	if slotDuration <= 0 {
		slotDuration = domain.DefaultSlotDurationMinutes
	}
	return &Service{
		store:        store,
		logger:       logger,
		slotDuration: slotDuration,
		defaultGrid:  defaultGrid,
		now:          time.Now,
		viewMode:     domain.ViewModeOpenSchedule,
		docs:         make(map[string]*document),
	}
}

// Load загружает коллекцию доступности из хранилища и восстанавливает
// локальное состояние сессии. Вызывается один раз при старте
func (s *Service) Load(ctx context.Context) error {
	collection, err := s.store.FetchAvailability(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to fetch availability: %v", ErrInternal, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Сетка времени: из хранилища, иначе встроенный дефолт
	grid := domain.NewTimeGrid(collection.TimeGrid)
	if len(grid) == 0 {
		s.logger.Warn("Load: store supplied no usable time grid, falling back to default (%d entries)",
			len(s.defaultGrid))
		grid = s.defaultGrid
	}
	s.grid = grid

	// 2. Режим отображения
	mode := domain.ViewMode(collection.ViewMode)
	if !mode.IsValid() {
		s.logger.Warn("Load: store supplied unknown view mode %q, defaulting to %s",
			collection.ViewMode, domain.ViewModeOpenSchedule)
		mode = domain.ViewModeOpenSchedule
	}
	s.viewMode = mode

	// 3. Документы инспекторов: нормализуем и запоминаем порядок
	s.docs = make(map[string]*document, len(collection.Inspectors))
	s.order = make([]string, 0, len(collection.Inspectors))
	for _, wire := range collection.Inspectors {
		if wire.InspectorID == "" {
			s.logger.Warn("Load: skipping inspector record without id")
			continue
		}
		doc := documentFromWire(wire, s.logger)
		s.docs[wire.InspectorID] = &document{
			draft:     doc,
			confirmed: doc.Clone(),
		}
		s.order = append(s.order, wire.InspectorID)
	}

	s.logger.Info("Load: session restored: %d inspectors, %d grid times, view_mode=%s",
		len(s.order), len(s.grid), s.viewMode)
	return nil
}

// HasInspector проверяет, что инспектор есть в сессии
func (s *Service) HasInspector(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	return ok
}

// ViewMode возвращает текущий глобальный режим отображения
func (s *Service) ViewMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.viewMode)
}

// Snapshot возвращает полное состояние сессии для отображения
// Статусы сохранения передаются снаружи (ими владеет sync-движок)
func (s *Service) Snapshot(states map[string]domain.SyncState) *models.ScheduleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := &models.ScheduleSnapshot{
		Inspectors: make([]models.InspectorView, 0, len(s.order)),
		TimeGrid:   s.grid.Strings(),
		ViewMode:   string(s.viewMode),
	}
	for _, id := range s.order {
		doc := s.docs[id]
		state, ok := states[id]
		if !ok {
			state = domain.SyncState{Status: domain.SyncIdle}
		}
		snapshot.Inspectors = append(snapshot.Inspectors, models.FromDomainInspector(doc.draft, state))
	}
	return snapshot
}

// ReplaceDay заменяет расписание одного дня недели в активном режиме
// Валидатор отсекает правку до применения: невалидное состояние не
// попадает даже в локальный черновик
func (s *Service) ReplaceDay(inspectorID, dayKey string, req *models.ReplaceDayRequest) (models.DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, day, err := s.lookup(inspectorID, dayKey)
	if err != nil {
		return models.DayView{}, err
	}

	current := doc.draft.Days[day]

	if s.viewMode == domain.ViewModeOpenSchedule {
		blocks := make([]domain.TimeBlock, 0, len(req.OpenSchedule))
		for _, b := range req.OpenSchedule {
			start, err := domain.NewTimeOfDay(b.Start)
			if err != nil {
				return models.DayView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			end, err := domain.NewTimeOfDay(b.End)
			if err != nil {
				return models.DayView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			blocks = append(blocks, domain.TimeBlock{Start: start, End: end})
		}
		if err := domain.ValidateOpenSchedule(blocks); err != nil {
			s.logger.Warn("ReplaceDay: open schedule rejected: inspector_id=%s, day=%s, error=%v",
				inspectorID, day, err)
			return models.DayView{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		domain.SortBlocks(blocks)
		current.OpenSchedule = blocks
	} else {
		times := make([]domain.TimeOfDay, 0, len(req.TimeSlots))
		for _, raw := range req.TimeSlots {
			t, err := domain.NewTimeOfDay(raw)
			if err != nil {
				return models.DayView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			times = append(times, t)
		}
		if err := domain.ValidateTimeSlots(times, s.grid); err != nil {
			s.logger.Warn("ReplaceDay: time slots rejected: inspector_id=%s, day=%s, error=%v",
				inspectorID, day, err)
			return models.DayView{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		slots := make([]domain.TimeSlot, 0, len(times))
		for _, t := range times {
			slots = append(slots, domain.TimeSlot{Time: t})
		}
		domain.SortSlots(slots)
		current.TimeSlots = slots
	}

	doc.draft.Days[day] = current
	s.logger.Info("ReplaceDay: day updated: inspector_id=%s, day=%s, blocks=%d, slots=%d",
		inspectorID, day, len(current.OpenSchedule), len(current.TimeSlots))
	return models.FromDomainDay(current), nil
}

// AddBlock добавляет в день первый свободный блок, предложенный поиском
// по сетке. Пользователь никогда не подбирает позицию вручную, поэтому
// предложенный блок по построению проходит валидацию
func (s *Service) AddBlock(inspectorID, dayKey string) (models.TimeBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, day, err := s.lookup(inspectorID, dayKey)
	if err != nil {
		return models.TimeBlock{}, err
	}

	current := doc.draft.Days[day]
	block, ok := domain.NextAvailableBlock(current.OpenSchedule, s.grid)
	if !ok {
		s.logger.Info("AddBlock: grid exhausted: inspector_id=%s, day=%s", inspectorID, day)
		return models.TimeBlock{}, ErrGridExhausted
	}

	current.OpenSchedule = append(current.OpenSchedule, block)
	domain.SortBlocks(current.OpenSchedule)
	doc.draft.Days[day] = current

	s.logger.Info("AddBlock: block added: inspector_id=%s, day=%s, block=%s-%s",
		inspectorID, day, block.Start, block.End)
	return models.TimeBlock{Start: string(block.Start), End: string(block.End)}, nil
}

// AddSlot добавляет в день первый свободный дискретный слот
func (s *Service) AddSlot(inspectorID, dayKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, day, err := s.lookup(inspectorID, dayKey)
	if err != nil {
		return "", err
	}

	current := doc.draft.Days[day]
	slot, ok := domain.NextAvailableSlot(domain.SlotTimes(current.TimeSlots), s.grid)
	if !ok {
		s.logger.Info("AddSlot: grid exhausted: inspector_id=%s, day=%s", inspectorID, day)
		return "", ErrGridExhausted
	}

	current.TimeSlots = append(current.TimeSlots, domain.TimeSlot{Time: slot})
	domain.SortSlots(current.TimeSlots)
	doc.draft.Days[day] = current

	s.logger.Info("AddSlot: slot added: inspector_id=%s, day=%s, slot=%s", inspectorID, day, slot)
	return string(slot), nil
}

// AddOverride добавляет исключение на конкретную дату
// Дата строго в прошлом отклоняется; в режиме timeSlots конец выводится
// из начала и длительности слота
func (s *Service) AddOverride(inspectorID string, req *models.AddOverrideRequest) (models.OverrideView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[inspectorID]
	if !ok {
		return models.OverrideView{}, ErrInspectorNotFound
	}

	// 1. Дата
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return models.OverrideView{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}
	if domain.IsDateInPast(date, s.now()) {
		return models.OverrideView{}, ErrPastDate
	}

	// 2. Начало: всегда из сетки
	start, err := domain.NewTimeOfDay(req.Start)
	if err != nil {
		return models.OverrideView{}, fmt.Errorf("%w: invalid start %q", ErrInvalidInput, req.Start)
	}
	if !s.grid.Contains(start) {
		return models.OverrideView{}, fmt.Errorf("%w: start %s is not on the allowed grid", ErrInvalidInput, start)
	}

	// 3. Конец: в режиме timeSlots выводится, в openSchedule обязателен
	var end domain.TimeOfDay
	if s.viewMode == domain.ViewModeTimeSlots {
		end = start.AddMinutes(s.slotDuration)
	} else {
		if req.End == nil {
			return models.OverrideView{}, fmt.Errorf("%w: end is required", ErrInvalidInput)
		}
		end, err = domain.NewTimeOfDay(*req.End)
		if err != nil {
			return models.OverrideView{}, fmt.Errorf("%w: invalid end %q", ErrInvalidInput, *req.End)
		}
		if !start.Before(end) {
			return models.OverrideView{}, fmt.Errorf("%w: start must be before end", ErrInvalidInput)
		}
	}

	// 4. Дубликаты по ключу (дата, начало) не допускаются
	for _, existing := range doc.draft.DateOverrides {
		if existing.SameKey(date, start) {
			return models.OverrideView{}, fmt.Errorf("%w: override for %s %s already exists",
				ErrInvalidInput, req.Date, start)
		}
	}

	override := domain.DateOverride{Date: date, Start: start, End: end}
	doc.draft.DateOverrides = append(doc.draft.DateOverrides, override)
	domain.SortOverrides(doc.draft.DateOverrides)

	s.logger.Info("AddOverride: override added: inspector_id=%s, date=%s, start=%s, end=%s",
		inspectorID, req.Date, start, end)
	return models.FromDomainOverride(override), nil
}

// RemoveOverride удаляет исключение по ключу (дата, начало)
func (s *Service) RemoveOverride(inspectorID, dateStr, startStr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[inspectorID]
	if !ok {
		return ErrInspectorNotFound
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, dateStr)
	}
	start, err := domain.NewTimeOfDay(startStr)
	if err != nil {
		return fmt.Errorf("%w: invalid start %q", ErrInvalidInput, startStr)
	}

	for i, o := range doc.draft.DateOverrides {
		if o.SameKey(date, start) {
			doc.draft.DateOverrides = append(
				doc.draft.DateOverrides[:i], doc.draft.DateOverrides[i+1:]...)
			s.logger.Info("RemoveOverride: override removed: inspector_id=%s, date=%s, start=%s",
				inspectorID, dateStr, startStr)
			return nil
		}
	}
	return ErrOverrideNotFound
}

// SetViewMode переключает глобальный режим отображения
// Одношаговый аналог sync-движка: оптимистичное применение, подтверждение
// хранилищем, откат при отказе
func (s *Service) SetViewMode(ctx context.Context, modeStr string) error {
	mode := domain.ViewMode(modeStr)
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown view mode %q", ErrInvalidInput, modeStr)
	}

	// 1. Применяем оптимистично
	s.mu.Lock()
	prev := s.viewMode
	if prev == mode {
		s.mu.Unlock()
		return nil
	}
	s.viewMode = mode
	s.mu.Unlock()

	// 2. Подтверждаем в хранилище; при отказе откатываемся к прежнему значению
	if err := s.store.SaveViewMode(ctx, modeStr); err != nil {
		s.mu.Lock()
		s.viewMode = prev
		s.mu.Unlock()
		s.logger.Error("SetViewMode: store rejected view mode %s, rolled back to %s: %v",
			mode, prev, err)
		return fmt.Errorf("%w: %v", ErrViewModeRejected, err)
	}

	s.logger.Info("SetViewMode: view mode changed: %s -> %s", prev, mode)
	return nil
}

// BuildSavePayload собирает исходящее расписание инспектора
// Защитная валидация каждого дня повторяется перед сериализацией:
// тот же валидатор, что отсекает правки, решает и "можно ли это слать"
func (s *Service) BuildSavePayload(inspectorID string) (*schedstore.SaveScheduleRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[inspectorID]
	if !ok {
		return nil, ErrInspectorNotFound
	}

	for _, day := range domain.WeekDays {
		if err := domain.ValidateDay(doc.draft.Days[day], s.grid); err != nil {
			return nil, fmt.Errorf("%w: day %s: %v", ErrInvalidSchedule, day, err)
		}
	}

	return buildSaveRequest(doc.draft, s.viewMode, s.slotDuration), nil
}

// ApplyCanonical сверяет канонический ответ хранилища с локальным
// состоянием: подтверждённая и черновая копии перезаписываются эхом
// сервера (хранилище могло нормализовать и переупорядочить данные)
func (s *Service) ApplyCanonical(inspectorID string, resp *schedstore.SaveScheduleResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[inspectorID]
	if !ok {
		return ErrInspectorNotFound
	}

	canonical := documentFromWire(schedstore.InspectorWire{
		InspectorID:   doc.draft.InspectorID,
		InspectorName: doc.draft.InspectorName,
		Availability:  resp.Availability,
		DateSpecific:  resp.DateSpecific,
	}, s.logger)

	doc.confirmed = canonical
	doc.draft = canonical.Clone()

	s.logger.Info("ApplyCanonical: local state reconciled with store echo: inspector_id=%s", inspectorID)
	return nil
}

// lookup находит документ и проверяет ключ дня; вызывается под s.mu
func (s *Service) lookup(inspectorID, dayKey string) (*document, domain.DayKey, error) {
	doc, ok := s.docs[inspectorID]
	if !ok {
		return nil, "", ErrInspectorNotFound
	}
	day := domain.DayKey(dayKey)
	if !day.IsValid() {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownDay, dayKey)
	}
	return doc, day, nil
}
