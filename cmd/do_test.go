package cmd

import (
	"testing"
)

// computeDoResult replicates the batch result logic from runDo to test it
// independently of the platform provider.
func computeDoResult(stepResults []StepResult, stopOnError bool) (allOK bool, completed int) {
	completed = 0
	hasFailure := false
	var lastErr string

	for _, r := range stepResults {
		if !r.OK {
			hasFailure = true
			if stopOnError {
				lastErr = r.Error
				break
			}
		} else {
			completed++
		}
	}

	_ = lastErr // used for Error field in real code
	if !hasFailure {
		completed = len(stepResults)
	}
	allOK = !hasFailure
	return
}

func TestDoResult_AllSuccess(t *testing.T) {
	steps := []StepResult{
		{Step: 1, OK: true, Action: "sleep"},
		{Step: 2, OK: true, Action: "sleep"},
		{Step: 3, OK: true, Action: "sleep"},
	}

	ok, completed := computeDoResult(steps, true)
	if !ok {
		t.Error("expected ok=true when all steps succeed")
	}
	if completed != 3 {
		t.Errorf("expected completed=3, got %d", completed)
	}
}

func TestDoResult_StopOnError_FailAtStep2(t *testing.T) {
	steps := []StepResult{
		{Step: 1, OK: true, Action: "sleep"},
		{Step: 2, OK: false, Action: "unknown-cmd", Error: "unknown step type"},
	}

	ok, completed := computeDoResult(steps, true)
	if ok {
		t.Error("expected ok=false when a step fails with stop-on-error=true")
	}
	if completed != 1 {
		t.Errorf("expected completed=1, got %d", completed)
	}
}

func TestDoResult_ContinueOnError_FailAtStep2(t *testing.T) {
	steps := []StepResult{
		{Step: 1, OK: true, Action: "sleep"},
		{Step: 2, OK: false, Action: "unknown-cmd", Error: "unknown step type"},
		{Step: 3, OK: true, Action: "sleep"},
	}

	ok, completed := computeDoResult(steps, false)
	if ok {
		t.Error("expected ok=false when a step fails with stop-on-error=false")
	}
	if completed != 2 {
		t.Errorf("expected completed=2 (only successful steps), got %d", completed)
	}
}

func TestDoResult_ContinueOnError_AllFail(t *testing.T) {
	steps := []StepResult{
		{Step: 1, OK: false, Action: "bad1", Error: "err1"},
		{Step: 2, OK: false, Action: "bad2", Error: "err2"},
	}

	ok, completed := computeDoResult(steps, false)
	if ok {
		t.Error("expected ok=false when all steps fail")
	}
	if completed != 0 {
		t.Errorf("expected completed=0, got %d", completed)
	}
}

func TestDoResult_ContinueOnError_MultipleFails(t *testing.T) {
	steps := []StepResult{
		{Step: 1, OK: true, Action: "sleep"},
		{Step: 2, OK: false, Action: "bad", Error: "err"},
		{Step: 3, OK: true, Action: "sleep"},
		{Step: 4, OK: false, Action: "bad2", Error: "err2"},
		{Step: 5, OK: true, Action: "sleep"},
	}

	ok, completed := computeDoResult(steps, false)
	if ok {
		t.Error("expected ok=false with multiple failures")
	}
	if completed != 3 {
		t.Errorf("expected completed=3, got %d", completed)
	}
}

// --- Step parameter helpers ---

func TestStringParam(t *testing.T) {
	params := map[string]interface{}{"text": "hello", "count": 3}
	if got := stringParam(params, "text", "default"); got != "hello" {
		t.Errorf("expected \"hello\", got %q", got)
	}
	if got := stringParam(params, "missing", "default"); got != "default" {
		t.Errorf("expected default fallback, got %q", got)
	}
	if got := stringParam(params, "count", ""); got != "3" {
		t.Errorf("expected numeric value stringified, got %q", got)
	}
}

func TestIntParam(t *testing.T) {
	params := map[string]interface{}{"a": 5, "b": float64(7), "c": int64(9)}
	if got := intParam(params, "a", 0); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := intParam(params, "b", 0); got != 7 {
		t.Errorf("expected 7 from float64, got %d", got)
	}
	if got := intParam(params, "c", 0); got != 9 {
		t.Errorf("expected 9 from int64, got %d", got)
	}
	if got := intParam(params, "missing", 42); got != 42 {
		t.Errorf("expected default 42, got %d", got)
	}
}

func TestBoolParam(t *testing.T) {
	params := map[string]interface{}{"flag": true}
	if !boolParam(params, "flag", false) {
		t.Error("expected true")
	}
	if boolParam(params, "missing", false) {
		t.Error("expected default false")
	}
}

func TestDescribeCondition(t *testing.T) {
	desc := describeCondition("Submit", "button", false)
	if desc == "" {
		t.Error("expected non-empty description")
	}
	desc = describeCondition("Submit", "", true)
	if desc == "" {
		t.Error("expected non-empty description for gone condition")
	}
}

func TestDirectionDelta(t *testing.T) {
	cases := []struct {
		direction      string
		amount         int
		wantDx, wantDy float64
	}{
		{"up", 3, 0, 3},
		{"down", 3, 0, -3},
		{"left", 3, 3, 0},
		{"right", 3, -3, 0},
	}
	for _, c := range cases {
		dx, dy := directionDelta(c.direction, c.amount)
		if dx != c.wantDx || dy != c.wantDy {
			t.Errorf("directionDelta(%q, %d) = (%v, %v), want (%v, %v)", c.direction, c.amount, dx, dy, c.wantDx, c.wantDy)
		}
	}
}

