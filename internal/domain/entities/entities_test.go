package entities

import (
	"errors"
	"strings"
	"testing"
)

func TestAction_Gated(t *testing.T) {
	gated := []Action{ActionUploadTranscript, ActionUploadYouTube, ActionTranscribeWhisper, ActionAsk}
	for _, a := range gated {
		if !a.Gated() {
			t.Errorf("%s should be gated", a)
		}
	}
	if ActionListDocuments.Gated() {
		t.Error("documents must not be gated")
	}
}

func TestAction_NameRoundTrip(t *testing.T) {
	a, ok := ParseAction("transcribe-youtube-whisper")
	if !ok || a != ActionTranscribeWhisper {
		t.Errorf("unexpected parse: %v %v", a, ok)
	}
	if _, ok := ParseAction("nope"); ok {
		t.Error("unknown name should not parse")
	}
	if Action(0).String() != "unknown" {
		t.Error("zero action should be unknown")
	}
}

func TestMessageResponse_PrefersMessage(t *testing.T) {
	r := MessageResponse{Message: "ok", Error: "ignored"}
	if r.Text() != "ok" {
		t.Errorf("unexpected text: %s", r.Text())
	}

	r = MessageResponse{Error: "bad file"}
	if r.Text() != "bad file" {
		t.Errorf("unexpected text: %s", r.Text())
	}
	if !(MessageResponse{}).IsEmpty() {
		t.Error("zero response should be empty")
	}
}

func TestAskResponse_FallsBackToError(t *testing.T) {
	if (AskResponse{Answer: "42"}).Text() != "42" {
		t.Error("answer should win")
	}
	if (AskResponse{Error: "bad request"}).Text() != "bad request" {
		t.Error("error should be used when answer is missing")
	}
}

func TestDocumentsResponse_IsEmpty(t *testing.T) {
	if !(DocumentsResponse{}).IsEmpty() {
		t.Error("missing documents field should be empty")
	}
	if (DocumentsResponse{Documents: []string{}}).IsEmpty() {
		t.Error("explicit empty list is a valid response")
	}
}

func TestResult_Display(t *testing.T) {
	ok := Result{Action: ActionAsk, Text: "42"}
	if ok.Display() != "42" || ok.Failed() {
		t.Errorf("unexpected display: %s", ok.Display())
	}

	failed := Result{Action: ActionAsk, Err: errors.New("connection refused")}
	if !failed.Failed() {
		t.Error("result with error should be failed")
	}
	if !strings.HasPrefix(failed.Display(), "Request failed: ") {
		t.Errorf("unexpected display: %s", failed.Display())
	}

	blank := Result{Action: ActionUploadYouTube}
	if blank.Display() != NoResponseText {
		t.Errorf("unexpected display: %s", blank.Display())
	}
}

func TestPanelState_CloneDoesNotShareDocuments(t *testing.T) {
	s := PanelState{Documents: []string{"a", "b"}}
	c := s.Clone()
	c.Documents[0] = "z"

	if s.Documents[0] != "a" {
		t.Error("clone should not alias the documents slice")
	}
}

func TestDefaultTranscriptExtensions_FreshCopy(t *testing.T) {
	exts := DefaultTranscriptExtensions()
	if len(exts) != 4 || exts[0] != ".txt" {
		t.Fatalf("unexpected defaults: %v", exts)
	}
	exts[0] = ".pdf"
	if DefaultTranscriptExtensions()[0] != ".txt" {
		t.Error("callers must not be able to change the defaults")
	}
}
