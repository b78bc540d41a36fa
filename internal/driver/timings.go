package driver

import (
	"encoding/json"
	"fmt"

	"svcore/internal/diag"
	"svcore/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records the timer as an info diagnostic whose note
// carries the JSON payload. A full bag is grown by one entry.
func appendTimingDiagnostic(bag *diag.Bag, path string, timer *observ.Timer) {
	if bag == nil || timer == nil {
		return
	}
	report := timer.Report()
	payload := timingPayload{Kind: "check", Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, nil, fmt.Sprintf("timings (%s): total %.2f ms: %s", payload.Kind, payload.TotalMS, path)).
		WithNote(nil, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(bag.Len() + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
