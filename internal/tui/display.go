package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/gazegrid/internal/capture"
	"github.com/verte-zerg/gazegrid/internal/session"
)

// SampleMsg carries one processed frame to the UI.
type SampleMsg capture.Update

// ReportMsg carries a finished session to the UI.
type ReportMsg struct {
	Report session.Report
}

// ErrorMsg reports a capture failure. Fatal errors end the program;
// Aborted means the requested session never started and the loop is idle.
type ErrorMsg struct {
	Err     error
	Fatal   bool
	Aborted bool
}

func errorMsg(err error) ErrorMsg {
	return ErrorMsg{Err: err, Aborted: errors.Is(err, capture.ErrDetectorUnavailable)}
}

// ProgramDisplay forwards capture feedback into a running program.
type ProgramDisplay struct {
	Program *tea.Program
}

// ShowSample implements capture.Display.
func (d ProgramDisplay) ShowSample(u capture.Update) {
	d.Program.Send(SampleMsg(u))
}

// ShowReport implements capture.Display.
func (d ProgramDisplay) ShowReport(r session.Report) {
	d.Program.Send(ReportMsg{Report: r})
}

// ShowError implements capture.Display.
func (d ProgramDisplay) ShowError(err error) {
	d.Program.Send(errorMsg(err))
}
