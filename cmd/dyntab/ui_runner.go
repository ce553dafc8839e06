package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dyntab/internal/driver"
	"dyntab/internal/ui"
	"dyntab/internal/vtable"
)

type materializeOutcome struct {
	results []driver.TypeResult
	err     error
}

func runMaterializeWithUI(ctx context.Context, title string, eng *vtable.Engine, m *manifest, jobs int) ([]driver.TypeResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan materializeOutcome, 1)

	go func() {
		res, err := driver.MaterializeAll(ctx, eng, m.DB, jobs, events)
		outcomeCh <- materializeOutcome{results: res, err: err}
	}()

	model := ui.NewProgressModel(title, m.DB.TypeNames(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
