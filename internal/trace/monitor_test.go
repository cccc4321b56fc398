package trace

import (
	"testing"
)

func TestFeed_DeliversEventsInOrder(t *testing.T) {
	feed := NewFeed(4)
	for i := 1; i <= 3; i++ {
		if !feed.Step(StepEvent{Step: i}) {
			t.Fatalf("step %d rejected by an open feed", i)
		}
	}
	feed.Finish(Outcome{Retcode: "success", Steps: 3})

	for i := 1; i <= 3; i++ {
		msg := <-feed.Events()
		ev, ok := msg.(stepMsg)
		if !ok {
			t.Fatalf("event %d: got %T, want stepMsg", i, msg)
		}
		if ev.Step != i {
			t.Errorf("event %d arrived as step %d", i, ev.Step)
		}
	}
	if _, ok := (<-feed.Events()).(doneMsg); !ok {
		t.Error("outcome did not arrive after the step events")
	}
}

func TestFeed_CloseUnblocksSenders(t *testing.T) {
	feed := NewFeed(1)
	feed.Step(StepEvent{Step: 1}) // fills the buffer

	delivered := make(chan bool)
	go func() {
		delivered <- feed.Step(StepEvent{Step: 2})
	}()
	feed.Close()

	if <-delivered {
		t.Error("a send past a closed feed must be dropped, not delivered")
	}
	// Finish on a closed feed with a full buffer must return too.
	feed.Finish(Outcome{Retcode: "maxiters"})
}

func TestModel_UpdateTracksHistoryAndOutcome(t *testing.T) {
	m := NewModel("sqroots", "newton", nil)

	next, _ := m.Update(stepMsg(StepEvent{Step: 1, ResidualNorm: 1e-2}))
	m = next.(Model)
	next, _ = m.Update(stepMsg(StepEvent{Step: 2, ResidualNorm: 1e-4}))
	m = next.(Model)

	if len(m.history) != 2 {
		t.Fatalf("history has %d entries, want 2", len(m.history))
	}
	if m.history[0] <= m.history[1] {
		t.Error("log residual history should be decreasing here")
	}
	if m.last.Step != 2 {
		t.Errorf("last step = %d, want 2", m.last.Step)
	}

	next, cmd := m.Update(doneMsg(Outcome{Retcode: "success", Steps: 2}))
	m = next.(Model)
	if m.outcome == nil || m.outcome.Retcode != "success" {
		t.Error("outcome not recorded")
	}
	if cmd != nil {
		t.Error("the final frame should hold without scheduling more reads")
	}
}
