package willowvr

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action      string     `json:"action"`
	Label       string     `json:"label,omitempty"`
	Origin      [3]float64 `json:"origin,omitempty"`
	Direction   [3]float64 `json:"direction,omitempty"`
	Type        string     `json:"type,omitempty"`
	DrawsCursor bool       `json:"drawsCursor,omitempty"`
	Target      string     `json:"target,omitempty"`
	Frames      int        `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected rays, expectations and screenshots across
// frames for automated testing. Attach to a Runtime via SetTestRunner.
//
// Actions:
//
//	ray        inject {origin, direction, type, drawsCursor}
//	clear      inject an empty ray set
//	expect     check the cursor target's name ("" expects no target)
//	wait       idle for frames
//	screenshot capture the next drawn frame under label
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Runtime via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "ray", "clear", "expect", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the runtime. The runner's step
// method is called at the start of each Update.
func (rt *Runtime) SetTestRunner(runner *TestRunner) {
	rt.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Failures returns the messages of failed expect steps.
func (r *TestRunner) Failures() []string {
	return r.failures
}

// step advances the test runner by one frame. Called from Runtime.Update.
func (r *TestRunner) step(rt *Runtime) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(rt.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "ray":
		rt.InjectRays(Ray{
			Origin:      mgl64.Vec3(st.Origin),
			Direction:   mgl64.Vec3(st.Direction).Normalize(),
			Type:        st.Type,
			DrawsCursor: st.DrawsCursor,
		})
	case "clear":
		rt.InjectClearRays()
	case "expect":
		got := ""
		if rt.cursor.LastHit != nil {
			got = rt.cursor.LastHit.Name
		}
		if got != st.Target {
			msg := fmt.Sprintf("step %d: expected target %q, got %q", r.cursor-1, st.Target, got)
			r.failures = append(r.failures, msg)
			Logger().Warn("test script expectation failed", "step", r.cursor-1, "want", st.Target, "got", got)
		}
	case "screenshot":
		rt.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(rt.injectQueue) == 0 {
		r.done = true
	}
}
