package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/markdg/habit-hub/internal/storage"
)

func TestServiceUpdateSwapsProgram(t *testing.T) {
	plans := &mockPlansStorage{}
	service := NewService(plans, Resolution{Program: Default(), Source: SourceDefault})

	if service.ActiveSource() != SourceDefault {
		t.Fatalf("source = %s", service.ActiveSource())
	}

	data, err := EncodeProgram(Default())
	if err != nil {
		t.Fatalf("EncodeProgram: %v", err)
	}

	program, err := service.Update(context.Background(), "Week Two Plan", data)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if program.Name != "Week Two Plan" {
		t.Errorf("name = %q", program.Name)
	}
	if service.Active().Name != "Week Two Plan" {
		t.Error("active program not swapped")
	}
	if service.ActiveSource() != SourceRemote {
		t.Errorf("source = %s, want remote", service.ActiveSource())
	}
	if len(plans.saved) != 1 {
		t.Errorf("saved %d plans, want 1", len(plans.saved))
	}
}

func TestServiceUpdateRejectsInvalid(t *testing.T) {
	plans := &mockPlansStorage{}
	service := NewService(plans, Resolution{Program: Default(), Source: SourceDefault})

	if _, err := service.Update(context.Background(), "bad", []byte(`{"monday": 1}`)); !errors.Is(err, ErrInvalidProgram) {
		t.Fatalf("expected ErrInvalidProgram, got %v", err)
	}
	if service.Active().Name != DefaultName {
		t.Error("invalid update replaced the active program")
	}
	if len(plans.saved) != 0 {
		t.Error("invalid plan was persisted")
	}
}

func TestServiceUpdateKeepsOldOnSaveFailure(t *testing.T) {
	plans := &mockPlansStorage{saveErr: storage.ErrUnavailable}
	service := NewService(plans, Resolution{Program: Default(), Source: SourceDefault})

	data, err := EncodeProgram(Default())
	if err != nil {
		t.Fatalf("EncodeProgram: %v", err)
	}

	if _, err := service.Update(context.Background(), "Week Two Plan", data); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if service.Active().Name != DefaultName {
		t.Error("failed save replaced the active program")
	}
	if service.ActiveSource() != SourceDefault {
		t.Error("failed save changed the source")
	}
}
