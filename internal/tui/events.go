package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/processor"
)

const subscriberID = "tui"

// StylesheetMsg carries a stylesheet that has just been persisted.
type StylesheetMsg struct {
	Stylesheet models.Stylesheet
}

// ErrorMsg stops the view tree with an error.
type ErrorMsg struct {
	Err error
}

// StylesheetPublisher notifies subscribers about persisted stylesheets.
type StylesheetPublisher interface {
	Subscribe(name string, fn processor.StylesheetFunc)
	Unsubscribe(name string)
}

// stylesheetSubscriber bridges the processor to the program.
type stylesheetSubscriber struct {
	program *tea.Program
}

func (s *stylesheetSubscriber) onStylesheet(stylesheet models.Stylesheet) {
	if s.program != nil {
		s.program.Send(StylesheetMsg{Stylesheet: stylesheet})
	}
}

func subscribeStylesheets(pub StylesheetPublisher, program *tea.Program) {
	subscriber := &stylesheetSubscriber{program: program}
	pub.Subscribe(subscriberID, subscriber.onStylesheet)
}
