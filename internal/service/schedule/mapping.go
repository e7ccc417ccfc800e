package schedule

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/schedstore"
)

// Нормализация wire → domain.
//
// Хранилище присылает массивы в произвольном порядке; локальная модель
// держит блоки отсортированными по началу, слоты уникальными и
// отсортированными, а исключения упорядоченными по (дате, началу).
// Повреждённые значения отбрасываются поштучно: одна битая запись не
// роняет весь документ.

func normalizeDay(wire schedstore.DayScheduleWire) domain.DaySchedule {
	day := domain.DaySchedule{
		OpenSchedule: make([]domain.TimeBlock, 0, len(wire.OpenSchedule)),
		TimeSlots:    make([]domain.TimeSlot, 0, len(wire.TimeSlots)),
	}

	for _, b := range wire.OpenSchedule {
		start, err := domain.NewTimeOfDay(b.Start)
		if err != nil {
			continue
		}
		end, err := domain.NewTimeOfDay(b.End)
		if err != nil {
			continue
		}
		day.OpenSchedule = append(day.OpenSchedule, domain.TimeBlock{Start: start, End: end})
	}
	domain.SortBlocks(day.OpenSchedule)

	seen := make(map[domain.TimeOfDay]bool, len(wire.TimeSlots))
	for _, s := range wire.TimeSlots {
		t, err := domain.NewTimeOfDay(s)
		if err != nil || seen[t] {
			continue
		}
		seen[t] = true
		day.TimeSlots = append(day.TimeSlots, domain.TimeSlot{Time: t})
	}
	domain.SortSlots(day.TimeSlots)

	return day
}

func normalizeOverrides(wire []schedstore.DateOverrideWire, log Logger) []domain.DateOverride {
	overrides := make([]domain.DateOverride, 0, len(wire))
	for _, o := range wire {
		date, err := time.Parse(domain.DateFormat, o.Date)
		if err != nil {
			// Нечитаемую дату отбрасываем, документ продолжает жить
			log.Warn("normalizeOverrides: dropping override with unparseable date %q: %v", o.Date, err)
			continue
		}
		start, err := domain.NewTimeOfDay(o.Start)
		if err != nil {
			log.Warn("normalizeOverrides: dropping override with invalid start %q", o.Start)
			continue
		}
		end, err := domain.NewTimeOfDay(o.End)
		if err != nil {
			log.Warn("normalizeOverrides: dropping override with invalid end %q", o.End)
			continue
		}
		overrides = append(overrides, domain.DateOverride{Date: date, Start: start, End: end})
	}
	domain.SortOverrides(overrides)
	return overrides
}

func documentFromWire(wire schedstore.InspectorWire, log Logger) *domain.InspectorAvailability {
	doc := domain.NewInspectorAvailability(wire.InspectorID, wire.InspectorName)
	for key, day := range wire.Availability {
		dayKey := domain.DayKey(key)
		if !dayKey.IsValid() {
			log.Warn("documentFromWire: dropping unknown day key %q for inspector_id=%s", key, wire.InspectorID)
			continue
		}
		doc.Days[dayKey] = normalizeDay(day)
	}
	doc.DateOverrides = normalizeOverrides(wire.DateSpecific, log)
	return doc
}

// Сериализация domain → wire.

func dayToWire(day domain.DaySchedule) schedstore.DayScheduleWire {
	wire := schedstore.DayScheduleWire{
		OpenSchedule: make([]schedstore.TimeBlockWire, 0, len(day.OpenSchedule)),
		TimeSlots:    make([]string, 0, len(day.TimeSlots)),
	}
	for _, b := range day.OpenSchedule {
		wire.OpenSchedule = append(wire.OpenSchedule, schedstore.TimeBlockWire{
			Start: string(b.Start),
			End:   string(b.End),
		})
	}
	for _, s := range day.TimeSlots {
		wire.TimeSlots = append(wire.TimeSlots, string(s.Time))
	}
	return wire
}

// overridesToWire сериализует исключения. В режиме timeSlots конец
// всегда пересчитывается от начала и длительности слота
func overridesToWire(overrides []domain.DateOverride, mode domain.ViewMode, slotDuration int) []schedstore.DateOverrideWire {
	wire := make([]schedstore.DateOverrideWire, 0, len(overrides))
	for _, o := range overrides {
		end := o.End
		if mode == domain.ViewModeTimeSlots {
			end = o.Start.AddMinutes(slotDuration)
		}
		wire = append(wire, schedstore.DateOverrideWire{
			Date:  o.Date.Format(domain.DateFormat),
			Start: string(o.Start),
			End:   string(end),
		})
	}
	return wire
}

func buildSaveRequest(doc *domain.InspectorAvailability, mode domain.ViewMode, slotDuration int) *schedstore.SaveScheduleRequest {
	days := make(map[string]schedstore.DayScheduleWire, len(domain.WeekDays))
	for _, day := range domain.WeekDays {
		days[string(day)] = dayToWire(doc.Days[day])
	}
	return &schedstore.SaveScheduleRequest{
		InspectorID:  doc.InspectorID,
		Days:         days,
		DateSpecific: overridesToWire(doc.DateOverrides, mode, slotDuration),
	}
}
