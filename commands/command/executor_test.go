package command

import (
	"errors"
	"testing"
)

func TestExecutorRunsByNameAndAlias(t *testing.T) {
	e := NewExecutor(nil)

	ran := 0
	e.RegisterCommand(NewCommand("ping", []string{"p"}, func(*CommandContext) error {
		ran++
		return nil
	}))

	if err := e.RunCommand("ping", nil); err != nil {
		t.Fatal(err)
	}
	if err := e.RunCommand("p", nil); err != nil {
		t.Fatal(err)
	}
	if ran != 2 {
		t.Errorf("command ran %d times, want 2", ran)
	}
}

func TestExecutorUnknownCommand(t *testing.T) {
	e := NewExecutor(nil)

	if err := e.RunCommand("nope", nil); !errors.Is(err, ErrCommandNotFound) {
		t.Fatalf("expected ErrCommandNotFound, got %v", err)
	}
}

func TestExecutorCommandNames(t *testing.T) {
	e := NewExecutor(nil)
	e.RegisterCommand(NewCommand("a", nil, func(*CommandContext) error { return nil }))
	e.RegisterCommand(NewCommand("b", nil, func(*CommandContext) error { return nil }))

	names := e.GetCommandNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("GetCommandNames() = %v", names)
	}
}
