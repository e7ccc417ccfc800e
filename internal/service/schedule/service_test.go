package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/schedstore"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeStore struct {
	collection  *schedstore.AvailabilityCollection
	fetchErr    error
	viewModeErr error
	savedModes  []string
}

func (f *fakeStore) FetchAvailability(ctx context.Context) (*schedstore.AvailabilityCollection, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.collection, nil
}

func (f *fakeStore) SaveViewMode(ctx context.Context, mode string) error {
	if f.viewModeErr != nil {
		return f.viewModeErr
	}
	f.savedModes = append(f.savedModes, mode)
	return nil
}

func testCollection(mode string) *schedstore.AvailabilityCollection {
	return &schedstore.AvailabilityCollection{
		Inspectors: []schedstore.InspectorWire{
			{
				InspectorID:   "insp-1",
				InspectorName: "John Doe",
				Availability: map[string]schedstore.DayScheduleWire{
					"monday": {
						// Нарочно не по порядку и с дубликатом слота
						OpenSchedule: []schedstore.TimeBlockWire{
							{Start: "13:00", End: "17:00"},
							{Start: "09:00", End: "12:00"},
						},
						TimeSlots: []string{"09:30", "09:00", "09:30"},
					},
				},
				DateSpecific: []schedstore.DateOverrideWire{
					{Date: "2026-09-20", Start: "10:00", End: "10:30"},
					{Date: "not-a-date", Start: "10:00", End: "10:30"},
				},
			},
			{
				InspectorID:   "insp-2",
				InspectorName: "Jane Roe",
			},
		},
		TimeGrid: []string{"09:00", "09:30", "10:00", "10:30"},
		ViewMode: mode,
	}
}

func newTestService(t *testing.T, mode string) (*Service, *fakeStore) {
	t.Helper()
	store := &fakeStore{collection: testCollection(mode)}
	svc := NewService(store, nopLogger{}, 30, domain.BuildGrid(30, "08:00", "18:00"))
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	require.NoError(t, svc.Load(context.Background()))
	return svc, store
}

func TestLoad_NormalizesWireData(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	snapshot := svc.Snapshot(nil)
	require.Len(t, snapshot.Inspectors, 2)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, snapshot.TimeGrid)
	assert.Equal(t, "openSchedule", snapshot.ViewMode)

	monday := snapshot.Inspectors[0].Days["monday"]

	// Блоки отсортированы по началу
	require.Len(t, monday.OpenSchedule, 2)
	assert.Equal(t, "09:00", monday.OpenSchedule[0].Start)
	assert.Equal(t, "13:00", monday.OpenSchedule[1].Start)

	// Дубликат слота схлопнут, порядок восстановлен
	assert.Equal(t, []string{"09:00", "09:30"}, monday.TimeSlots)

	// Исключение с нечитаемой датой отброшено
	require.Len(t, snapshot.Inspectors[0].DateOverrides, 1)
	assert.Equal(t, "2026-09-20", snapshot.Inspectors[0].DateOverrides[0].Date)

	// Отсутствующие дни недели присутствуют пустыми
	assert.Contains(t, snapshot.Inspectors[0].Days, "sunday")
}

func TestLoad_FallsBackToDefaultGridAndMode(t *testing.T) {
	store := &fakeStore{collection: &schedstore.AvailabilityCollection{
		TimeGrid: []string{"garbage"},
		ViewMode: "unknown",
	}}
	svc := NewService(store, nopLogger{}, 30, domain.BuildGrid(30, "08:00", "10:00"))
	require.NoError(t, svc.Load(context.Background()))

	snapshot := svc.Snapshot(nil)
	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30", "10:00"}, snapshot.TimeGrid)
	assert.Equal(t, "openSchedule", snapshot.ViewMode)
}

func TestLoad_StoreError(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("connection refused")}
	svc := NewService(store, nopLogger{}, 30, nil)
	require.ErrorIs(t, svc.Load(context.Background()), ErrInternal)
}

func TestReplaceDay_OpenSchedule(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	day, err := svc.ReplaceDay("insp-1", "monday", &models.ReplaceDayRequest{
		OpenSchedule: []models.TimeBlock{
			{Start: "14:00", End: "16:00"},
			{Start: "10:00", End: "11:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, day.OpenSchedule, 2)
	assert.Equal(t, "10:00", day.OpenSchedule[0].Start)

	// Неактивный список не тронут
	assert.Equal(t, []string{"09:00", "09:30"}, day.TimeSlots)
}

func TestReplaceDay_RejectsOverlap(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	before := svc.Snapshot(nil).Inspectors[0].Days["monday"]

	_, err := svc.ReplaceDay("insp-1", "monday", &models.ReplaceDayRequest{
		OpenSchedule: []models.TimeBlock{
			{Start: "09:00", End: "10:00"},
			{Start: "09:30", End: "10:30"},
		},
	})
	require.ErrorIs(t, err, ErrInvalidSchedule)

	// Черновик не изменился
	after := svc.Snapshot(nil).Inspectors[0].Days["monday"]
	assert.Equal(t, before, after)
}

func TestReplaceDay_TimeSlotsMode(t *testing.T) {
	svc, _ := newTestService(t, "timeSlots")

	day, err := svc.ReplaceDay("insp-1", "monday", &models.ReplaceDayRequest{
		TimeSlots: []string{"10:30", "09:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:30"}, day.TimeSlots)

	// Слот вне сетки отклоняется
	_, err = svc.ReplaceDay("insp-1", "monday", &models.ReplaceDayRequest{
		TimeSlots: []string{"09:15"},
	})
	require.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestReplaceDay_UnknownInspectorAndDay(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	_, err := svc.ReplaceDay("nobody", "monday", &models.ReplaceDayRequest{})
	require.ErrorIs(t, err, ErrInspectorNotFound)

	_, err = svc.ReplaceDay("insp-1", "someday", &models.ReplaceDayRequest{})
	require.ErrorIs(t, err, ErrUnknownDay)
}

func TestAddBlock(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	// Вторник пуст: предлагается первая пара сетки
	block, err := svc.AddBlock("insp-1", "tuesday")
	require.NoError(t, err)
	assert.Equal(t, models.TimeBlock{Start: "09:00", End: "09:30"}, block)

	// Понедельник занят блоком 09:00-12:00, перекрывающим всю сетку
	_, err = svc.AddBlock("insp-1", "monday")
	require.ErrorIs(t, err, ErrGridExhausted)
}

func TestAddSlot(t *testing.T) {
	svc, _ := newTestService(t, "timeSlots")

	// В понедельнике заняты 09:00 и 09:30
	slot, err := svc.AddSlot("insp-1", "monday")
	require.NoError(t, err)
	assert.Equal(t, "10:00", slot)

	slot, err = svc.AddSlot("insp-1", "monday")
	require.NoError(t, err)
	assert.Equal(t, "10:30", slot)

	_, err = svc.AddSlot("insp-1", "monday")
	require.ErrorIs(t, err, ErrGridExhausted)
}

func TestAddOverride_OpenScheduleMode(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	end := "11:00"
	view, err := svc.AddOverride("insp-1", &models.AddOverrideRequest{
		Date:  "2026-09-10",
		Start: "10:00",
		End:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OverrideView{Date: "2026-09-10", Start: "10:00", End: "11:00"}, view)

	// End обязателен в этом режиме
	_, err = svc.AddOverride("insp-1", &models.AddOverrideRequest{
		Date:  "2026-09-11",
		Start: "10:00",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddOverride_TimeSlotsModeDerivesEnd(t *testing.T) {
	svc, _ := newTestService(t, "timeSlots")

	// Переданный конец игнорируется, берётся начало плюс длительность слота
	bogusEnd := "23:00"
	view, err := svc.AddOverride("insp-1", &models.AddOverrideRequest{
		Date:  "2026-09-10",
		Start: "10:00",
		End:   &bogusEnd,
	})
	require.NoError(t, err)
	assert.Equal(t, "10:30", view.End)
}

func TestAddOverride_Rejections(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")
	end := "11:00"

	// Дата строго в прошлом
	_, err := svc.AddOverride("insp-1", &models.AddOverrideRequest{
		Date: "2026-08-31", Start: "10:00", End: &end,
	})
	require.ErrorIs(t, err, ErrPastDate)

	// Сегодня допустимо
	_, err = svc.AddOverride("insp-1", &models.AddOverrideRequest{
		Date: "2026-09-01", Start: "10:00", End: &end,
	})
	require.NoError(t, err)

	// Начало вне сетки
	_, err = svc.AddOverride("insp-1", &models.AddOverrideRequest{
		Date: "2026-09-10", Start: "10:15", End: &end,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// Дубликат по ключу (дата, начало)
	_, err = svc.AddOverride("insp-1", &models.AddOverrideRequest{
		Date: "2026-09-20", Start: "10:00", End: &end,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveOverride(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	require.NoError(t, svc.RemoveOverride("insp-1", "2026-09-20", "10:00"))
	require.ErrorIs(t, svc.RemoveOverride("insp-1", "2026-09-20", "10:00"), ErrOverrideNotFound)
	require.ErrorIs(t, svc.RemoveOverride("nobody", "2026-09-20", "10:00"), ErrInspectorNotFound)
}

func TestSetViewMode(t *testing.T) {
	svc, store := newTestService(t, "openSchedule")

	require.NoError(t, svc.SetViewMode(context.Background(), "timeSlots"))
	assert.Equal(t, "timeSlots", svc.ViewMode())
	assert.Equal(t, []string{"timeSlots"}, store.savedModes)

	// Повторная установка того же режима не ходит в хранилище
	require.NoError(t, svc.SetViewMode(context.Background(), "timeSlots"))
	assert.Len(t, store.savedModes, 1)

	require.ErrorIs(t, svc.SetViewMode(context.Background(), "grid"), ErrInvalidInput)
}

func TestSetViewMode_RollbackOnStoreRejection(t *testing.T) {
	svc, store := newTestService(t, "openSchedule")
	store.viewModeErr = errors.New("store down")

	err := svc.SetViewMode(context.Background(), "timeSlots")
	require.ErrorIs(t, err, ErrViewModeRejected)

	// Оптимистичное применение откатилось
	assert.Equal(t, "openSchedule", svc.ViewMode())
}

func TestBuildSavePayload(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	payload, err := svc.BuildSavePayload("insp-1")
	require.NoError(t, err)
	assert.Equal(t, "insp-1", payload.InspectorID)

	// Все семь дней сериализуются, включая пустые
	require.Len(t, payload.Days, 7)
	assert.Len(t, payload.Days["monday"].OpenSchedule, 2)
	assert.Empty(t, payload.Days["sunday"].OpenSchedule)

	require.Len(t, payload.DateSpecific, 1)

	_, err = svc.BuildSavePayload("nobody")
	require.ErrorIs(t, err, ErrInspectorNotFound)
}

func TestBuildSavePayload_TimeSlotsModeRecomputesOverrideEnd(t *testing.T) {
	svc, _ := newTestService(t, "timeSlots")

	payload, err := svc.BuildSavePayload("insp-1")
	require.NoError(t, err)
	require.Len(t, payload.DateSpecific, 1)
	assert.Equal(t, "10:30", payload.DateSpecific[0].End)
}

func TestApplyCanonical_OverwritesDraftWithEcho(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	// Хранилище вернуло нормализованное эхо с другим содержимым
	err := svc.ApplyCanonical("insp-1", &schedstore.SaveScheduleResponse{
		Availability: map[string]schedstore.DayScheduleWire{
			"monday": {
				OpenSchedule: []schedstore.TimeBlockWire{{Start: "08:00", End: "09:00"}},
			},
		},
	})
	require.NoError(t, err)

	monday := svc.Snapshot(nil).Inspectors[0].Days["monday"]
	require.Len(t, monday.OpenSchedule, 1)
	assert.Equal(t, "08:00", monday.OpenSchedule[0].Start)

	// Исключения тоже заменены эхом (пустым)
	assert.Empty(t, svc.Snapshot(nil).Inspectors[0].DateOverrides)

	require.ErrorIs(t, svc.ApplyCanonical("nobody", &schedstore.SaveScheduleResponse{}), ErrInspectorNotFound)
}

func TestSnapshot_MergesSyncStates(t *testing.T) {
	svc, _ := newTestService(t, "openSchedule")

	snapshot := svc.Snapshot(map[string]domain.SyncState{
		"insp-1": {Status: domain.SyncError, Message: "save failed"},
	})

	assert.Equal(t, "error", snapshot.Inspectors[0].SyncState.Status)
	assert.Equal(t, "save failed", snapshot.Inspectors[0].SyncState.Message)

	// Инспектор без активности остаётся idle
	assert.Equal(t, "idle", snapshot.Inspectors[1].SyncState.Status)
}
