package component

import (
	"context"
	"errors"
	"testing"
)

func TestCreateRowRejectsBlankLabel(t *testing.T) {
	if _, err := CreateRow("  "); !errors.Is(err, ErrEmptyLabel) {
		t.Fatalf("expected ErrEmptyLabel, got %v", err)
	}
}

func TestRowActivateFiresEachHandlerOnce(t *testing.T) {
	row, err := CreateRow("Intro has 3 sources")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var calls []string
	row.OnActivate(func(context.Context) error {
		calls = append(calls, "first")
		return nil
	})
	row.OnActivate(nil)
	row.OnActivate(func(context.Context) error {
		calls = append(calls, "second")
		return nil
	})
	if err := row.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected handler calls %v", calls)
	}
}

func TestRowActivateReturnsHandlerError(t *testing.T) {
	row, _ := CreateRow("Main has 0 sources")
	boom := errors.New("switch rejected")
	row.OnActivate(func(context.Context) error { return boom })
	if err := row.Activate(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestElementRenderContainsLabel(t *testing.T) {
	row, _ := CreateRow("Intro has 3 sources")
	if got := row.Element().Render(false); got == "" {
		t.Fatalf("expected rendered label")
	}
	if row.Label() != "Intro has 3 sources" {
		t.Fatalf("unexpected label %q", row.Label())
	}
}
