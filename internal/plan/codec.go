package plan

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire format of the plan_data payload stored in the plans collection:
// an object with lowercase weekday keys, each holding the day's type,
// an optional display label, and its ordered item list.

type wireItem struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

type wireDay struct {
	Type  string     `json:"type"`
	Label string     `json:"label,omitempty"`
	Items []wireItem `json:"items"`
}

var wireDayKeys = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseProgram decodes a plan_data payload into a validated WeeklyProgram.
func ParseProgram(name string, data []byte) (WeeklyProgram, error) {
	var wire map[string]wireDay
	if err := json.Unmarshal(data, &wire); err != nil {
		return WeeklyProgram{}, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}

	program := WeeklyProgram{
		Name: name,
		Days: make(map[time.Weekday]DayProgram, 7),
	}
	for key, day := range wire {
		weekday, ok := wireDayKeys[key]
		if !ok {
			return WeeklyProgram{}, fmt.Errorf("%w: unknown weekday key %q", ErrInvalidProgram, key)
		}
		items := make([]ChecklistItem, 0, len(day.Items))
		for _, item := range day.Items {
			items = append(items, ChecklistItem{
				Key:      item.Key,
				Label:    item.Label,
				Category: Category(item.Category),
			})
		}
		program.Days[weekday] = DayProgram{
			Type:  DayType(day.Type),
			Items: items,
		}
	}

	if err := program.Validate(); err != nil {
		return WeeklyProgram{}, err
	}
	return program, nil
}

// EncodeProgram serializes a WeeklyProgram into the plan_data wire format.
func EncodeProgram(p WeeklyProgram) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	wire := make(map[string]wireDay, 7)
	for key, weekday := range wireDayKeys {
		day := p.Days[weekday]
		items := make([]wireItem, 0, len(day.Items))
		for _, item := range day.Items {
			items = append(items, wireItem{
				Key:      item.Key,
				Label:    item.Label,
				Category: string(item.Category),
			})
		}
		wire[key] = wireDay{
			Type:  string(day.Type),
			Label: day.Type.Label(),
			Items: items,
		}
	}

	return json.Marshal(wire)
}
