package plan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/markdg/habit-hub/internal/storage"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default program invalid: %v", err)
	}
}

func TestDefaultDayShape(t *testing.T) {
	p := Default()

	monday := p.Days[time.Monday]
	if monday.Type != DayWorkout {
		t.Errorf("Monday type = %s, want workout", monday.Type)
	}
	if len(monday.Items) != 5 {
		t.Errorf("Monday has %d items, want 5", len(monday.Items))
	}

	saturday := p.Days[time.Saturday]
	if saturday.Type != DayRest {
		t.Errorf("Saturday type = %s, want rest", saturday.Type)
	}
	if len(saturday.Items) != 1 {
		t.Errorf("Saturday has %d items, want 1", len(saturday.Items))
	}

	// protein_shake is the recurring habit: same key every day
	for wd, day := range p.Days {
		if _, ok := day.KeySet()["protein_shake"]; !ok {
			t.Errorf("%s is missing the protein_shake habit", wd)
		}
	}
}

func TestDayProgramFor(t *testing.T) {
	p := Default()

	// 2026-08-31 is a Monday
	monday := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.Local)
	day, err := p.DayProgramFor(monday)
	if err != nil {
		t.Fatalf("DayProgramFor: %v", err)
	}
	if day.Type != DayWorkout {
		t.Errorf("type = %s, want workout", day.Type)
	}

	// A program with a hole must fail the defensive check
	broken := WeeklyProgram{Name: "broken", Days: map[time.Weekday]DayProgram{}}
	if _, err := broken.DayProgramFor(monday); !errors.Is(err, ErrInvalidProgram) {
		t.Errorf("err = %v, want ErrInvalidProgram", err)
	}
}

func TestLabels(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{DayWorkout.Label(), "Workout Day"},
		{DayWalk.Label(), "Walk Day"},
		{DayRest.Label(), "Rest Day"},
		{CategoryHabit.Label(), "Daily habit"},
		{CategoryWorkout.Label(), "Workout"},
		{CategoryWalk.Label(), "Walk"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("label = %q, want %q", c.got, c.want)
		}
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	data, err := EncodeProgram(Default())
	if err != nil {
		t.Fatalf("EncodeProgram: %v", err)
	}

	parsed, err := ParseProgram("Week Two Plan", data)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if parsed.Name != "Week Two Plan" {
		t.Errorf("name = %q", parsed.Name)
	}

	def := Default()
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		want := def.Days[wd]
		got := parsed.Days[wd]
		if got.Type != want.Type {
			t.Errorf("%s type = %s, want %s", wd, got.Type, want.Type)
		}
		if len(got.Items) != len(want.Items) {
			t.Fatalf("%s items = %d, want %d", wd, len(got.Items), len(want.Items))
		}
		for i := range want.Items {
			if got.Items[i] != want.Items[i] {
				t.Errorf("%s item %d = %+v, want %+v", wd, i, got.Items[i], want.Items[i])
			}
		}
	}
}

func TestParseProgramRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{`,
		"missing days":    `{"monday": {"type": "workout", "items": []}}`,
		"unknown weekday": `{"monday":{"type":"rest","items":[]},"tuesday":{"type":"rest","items":[]},"wednesday":{"type":"rest","items":[]},"thursday":{"type":"rest","items":[]},"friday":{"type":"rest","items":[]},"saturday":{"type":"rest","items":[]},"funday":{"type":"rest","items":[]}}`,
	}
	for name, payload := range cases {
		if _, err := ParseProgram("x", []byte(payload)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseProgramRejectsUnknownEnums(t *testing.T) {
	build := func(mutate func(days map[string]wireDay)) []byte {
		days := make(map[string]wireDay, 7)
		for key := range wireDayKeys {
			days[key] = wireDay{Type: "rest", Items: []wireItem{{Key: "protein_shake", Label: "Shake", Category: "habit"}}}
		}
		mutate(days)
		data, _ := json.Marshal(days)
		return data
	}

	badType := build(func(days map[string]wireDay) {
		days["monday"] = wireDay{Type: "cardio", Items: nil}
	})
	if _, err := ParseProgram("x", badType); !errors.Is(err, ErrInvalidProgram) {
		t.Errorf("bad day type: err = %v", err)
	}

	badCategory := build(func(days map[string]wireDay) {
		days["monday"] = wireDay{Type: "walk", Items: []wireItem{{Key: "stretch", Label: "Stretch", Category: "mobility"}}}
	})
	if _, err := ParseProgram("x", badCategory); !errors.Is(err, ErrInvalidProgram) {
		t.Errorf("bad category: err = %v", err)
	}

	dupKeys := build(func(days map[string]wireDay) {
		days["monday"] = wireDay{Type: "walk", Items: []wireItem{
			{Key: "walk", Label: "Walk", Category: "walk"},
			{Key: "walk", Label: "Walk again", Category: "walk"},
		}}
	})
	if _, err := ParseProgram("x", dupKeys); !errors.Is(err, ErrInvalidProgram) {
		t.Errorf("duplicate keys: err = %v", err)
	}
}

// mockPlansStorage implements storage.PlansStorage for resolver tests.
type mockPlansStorage struct {
	plan    storage.StoredPlan
	found   bool
	err     error
	saveErr error
	saved   []string
}

func (m *mockPlansStorage) GetActivePlan(ctx context.Context) (storage.StoredPlan, bool, error) {
	return m.plan, m.found, m.err
}

func (m *mockPlansStorage) SaveActivePlan(ctx context.Context, name string, planData []byte) (storage.StoredPlan, error) {
	if m.saveErr != nil {
		return storage.StoredPlan{}, m.saveErr
	}
	m.saved = append(m.saved, name)
	return storage.StoredPlan{Name: name, PlanData: planData, IsActive: true}, nil
}

func TestResolveFetchFailureFallsBack(t *testing.T) {
	plans := &mockPlansStorage{err: storage.ErrUnavailable}

	res := Resolve(context.Background(), plans, nil)
	if res.Source != SourceDefault {
		t.Errorf("source = %s, want default", res.Source)
	}
	if res.Program.Name != DefaultName {
		t.Errorf("name = %q, want %q", res.Program.Name, DefaultName)
	}
}

func TestResolveNoActivePlanFallsBack(t *testing.T) {
	res := Resolve(context.Background(), &mockPlansStorage{}, nil)
	if res.Source != SourceDefault {
		t.Errorf("source = %s, want default", res.Source)
	}
}

func TestResolveMalformedPayloadFallsBack(t *testing.T) {
	plans := &mockPlansStorage{
		plan:  storage.StoredPlan{Name: "bad", PlanData: []byte(`{"monday": 1}`)},
		found: true,
	}

	res := Resolve(context.Background(), plans, nil)
	if res.Source != SourceDefault {
		t.Errorf("source = %s, want default", res.Source)
	}
}

func TestResolveUsesRemotePlan(t *testing.T) {
	data, err := EncodeProgram(Default())
	if err != nil {
		t.Fatalf("EncodeProgram: %v", err)
	}
	plans := &mockPlansStorage{
		plan:  storage.StoredPlan{Name: "Week Two Plan", PlanData: data},
		found: true,
	}

	res := Resolve(context.Background(), plans, nil)
	if res.Source != SourceRemote {
		t.Errorf("source = %s, want remote", res.Source)
	}
	if res.Program.Name != "Week Two Plan" {
		t.Errorf("name = %q", res.Program.Name)
	}
}
