// Copyright © 2026 The pyclewn authors

package replay

import (
	"strconv"

	"github.com/tidwall/sjson"
)

// Report renders the run outcome as JSON: the stop list plus the engine
// delivery counters.
func Report(stops []Stop, stats Stats) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	out, err = sjson.SetBytes(out, "stats.delivered", stats.Delivered)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetBytes(out, "stats.suppressed", stats.Suppressed)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetBytes(out, "stats.failed", stats.Failed)
	if err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return sjson.SetRawBytes(out, "stops", []byte(`[]`))
	}
	for i, stop := range stops {
		entry := map[string]any{
			"event":  stop.Event.String(),
			"file":   stop.File,
			"line":   stop.Line,
			"reason": stop.Reason,
			"action": stop.Action,
		}
		if stop.Arg != "" {
			entry["arg"] = stop.Arg
		}
		out, err = sjson.SetBytes(out, "stops."+strconv.Itoa(i), entry)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
