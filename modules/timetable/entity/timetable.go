package entity

import (
	"database/sql/driver"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"scheduling-api/core/constants"
	coreEntity "scheduling-api/core/entity"
	"scheduling-api/core/errors"
	slotEntity "scheduling-api/modules/slot/entity"

	"github.com/google/uuid"
)

// WeekdayKeys lists the weekly map keys in their canonical order.
var WeekdayKeys = []string{"sat", "sun", "mon", "tue", "wed", "thu", "fri"}

var weekdayByKey = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// RangeInfo annotates one "start-end" hour range of a weekday.
type RangeInfo struct {
	Interval int `json:"interval"`
}

// DayRanges maps "start-end" hour range keys to their interval info.
type DayRanges map[string]RangeInfo

// WeeklyMap is the recurring availability definition: per weekday, a set of
// disjoint hour ranges. Stored as a jsonb column.
type WeeklyMap map[string]DayRanges

func (w WeeklyMap) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

func (w *WeeklyMap) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return goerrors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, w)
}

// TimeTable is an owner's weekly recurring availability definition. The
// timezone label is stored as provided but not applied to slot arithmetic;
// hour ranges are interpreted against the expansion anchor's location.
type TimeTable struct {
	Name       string    `db:"name" json:"name"`
	Slug       string    `db:"slug" json:"slug"`
	OwnerID    uuid.UUID `db:"owner_id" json:"owner_id"`
	Repeatable bool      `db:"repeatable" json:"repeatable"`
	Timezone   string    `db:"timezone" json:"timezone"`
	Weekly     WeeklyMap `db:"weekly" json:"weekly"`
	coreEntity.BaseEntity
}

// parseRange parses a "start-end" hour range key. Both bounds must be
// integers in [0,24] with start < end.
func parseRange(key string) (int, int, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("range %q must have the form start-end", key)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("range %q has a non-numeric start", key)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("range %q has a non-numeric end", key)
	}
	if start < 0 || start > 24 || end < 0 || end > 24 {
		return 0, 0, fmt.Errorf("range %q bounds must be within [0,24]", key)
	}
	if start >= end {
		return 0, 0, fmt.Errorf("range %q start must be before end", key)
	}
	return start, end, nil
}

// Validate checks the weekly map: every range key must parse, every interval
// must be within bounds, and ranges within one weekday must not overlap.
func (t *TimeTable) Validate() *errors.AppError {
	for day, ranges := range t.Weekly {
		if _, ok := weekdayByKey[day]; !ok {
			return errors.NewAppError(errors.ErrValidation,
				fmt.Sprintf("unknown weekday %q", day), nil)
		}

		bounds := make([][2]int, 0, len(ranges))
		for key, info := range ranges {
			start, end, err := parseRange(key)
			if err != nil {
				return errors.NewAppError(errors.ErrValidation, err.Error(), nil)
			}
			if info.Interval < constants.SlotIntervalMinMinutes || info.Interval > constants.SlotIntervalMaxMinutes {
				return errors.NewAppError(errors.ErrValidation,
					fmt.Sprintf("range %q interval must be between %d and %d minutes",
						key, constants.SlotIntervalMinMinutes, constants.SlotIntervalMaxMinutes), nil)
			}
			bounds = append(bounds, [2]int{start, end})
		}

		sort.Slice(bounds, func(i, j int) bool { return bounds[i][0] < bounds[j][0] })
		for i := 1; i < len(bounds); i++ {
			if bounds[i-1][1] > bounds[i][0] {
				return errors.NewAppError(errors.ErrValidation,
					fmt.Sprintf("overlapping ranges on %q", day), nil)
			}
		}
	}
	return nil
}

// ExpandSlots turns the weekly map into concrete slot values for the week
// anchored at anchor. For each weekday the first slot starts on the anchor
// date advanced to that weekday; slots of interval I are emitted while they
// still fit inside the range, so an overshoot tail is dropped rather than
// truncated. Malformed range keys and zero intervals are skipped without
// failing the expansion. The produced slots are not persisted here.
func (t *TimeTable) ExpandSlots(anchor time.Time) []slotEntity.Slot {
	var result []slotEntity.Slot

	for _, day := range WeekdayKeys {
		ranges, ok := t.Weekly[day]
		if !ok || len(ranges) == 0 {
			continue
		}

		dayStart := advanceToWeekday(anchor, weekdayByKey[day])

		keys := make([]string, 0, len(ranges))
		for key := range ranges {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			si, _, errI := parseRange(keys[i])
			sj, _, errJ := parseRange(keys[j])
			if errI != nil || errJ != nil {
				return keys[i] < keys[j]
			}
			return si < sj
		})

		for _, key := range keys {
			interval := ranges[key].Interval
			if interval <= 0 {
				continue
			}
			start, end, err := parseRange(key)
			if err != nil {
				continue
			}

			step := time.Duration(interval) * time.Minute
			cursor := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
				start, 0, 0, 0, dayStart.Location())
			rangeEnd := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
				end, 0, 0, 0, dayStart.Location())

			for !cursor.Add(step).After(rangeEnd) {
				id := t.ID
				result = append(result, slotEntity.Slot{
					TimetableID: &id,
					StartTime:   cursor,
					EndTime:     cursor.Add(step),
					Taken:       false,
				})
				cursor = cursor.Add(step)
			}
		}
	}
	return result
}

// advanceToWeekday moves t forward to the next occurrence of wd, keeping t's
// date when it already falls on wd.
func advanceToWeekday(t time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, days)
}
