// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code - the panel's state transitions are pure functions.
package usecases

import "github.com/0xcro3dile/podpanel-go/internal/domain/entities"

// Reduce returns the state that follows s after ev.
// It never mutates s and performs no I/O.
func Reduce(s entities.PanelState, ev entities.Event) entities.PanelState {
	s = s.Clone()

	switch e := ev.(type) {
	case entities.QuestionChanged:
		s.Question = e.Question
	case entities.URLChanged:
		s.URL = e.URL
	case entities.FileChosen:
		s.File = e.File
	case entities.ValidationFailed:
		s.Alert = e.Message
	case entities.AlertDismissed:
		if e.Message == "" || e.Message == s.Alert {
			s.Alert = ""
		}
	case entities.RequestStarted:
		if e.Action.Gated() {
			s.Loading = true
			s.InFlight = e.Token
		} else if e.Action == entities.ActionListDocuments {
			s.DocumentsToken = e.Token
		}
	case entities.RequestFinished:
		return reduceFinished(s, e)
	}

	return s
}

// reduceFinished applies a completion. Completions whose token is no longer
// current are dropped: latest-issued wins.
func reduceFinished(s entities.PanelState, e entities.RequestFinished) entities.PanelState {
	res := e.Result

	if res.Action.Gated() {
		if e.Token != s.InFlight {
			return s
		}
		s.Loading = false
		s.InFlight = 0
		if res.Action == entities.ActionAsk {
			s.Answer = res.Display()
		} else {
			s.Alert = res.Display()
		}
		return s
	}

	if res.Action != entities.ActionListDocuments || e.Token != s.DocumentsToken {
		return s
	}
	if res.Failed() {
		// Keep the last good list.
		s.Alert = res.Display()
		return s
	}
	if res.Documents == nil {
		s.Documents = []string{}
	} else {
		s.Documents = append([]string(nil), res.Documents...)
	}
	if res.Text != "" {
		s.Alert = res.Text
	}
	return s
}
