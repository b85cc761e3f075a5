package backend

import (
	"context"

	"schedpilot/internal/jobspec"
	"schedpilot/pkg/logx"
)

// Snapshot maps each probed backend to its observed state.
type Snapshot map[Kind]State

// Present returns the kinds with an existing entry, in reporting order.
func (s Snapshot) Present() []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if st, ok := s[k]; ok && st.Present {
			out = append(out, k)
		}
	}
	return out
}

// Detect probes every reconciler and returns a fresh snapshot.
//
// Probe errors (missing crontab binary, unreadable file, ...) are absorbed
// here: the backend is reported as not present and the error is logged at
// debug level. Detection must never abort a run.
func Detect(ctx context.Context, sp jobspec.Spec, rs []Reconciler, log logx.Logger) Snapshot {
	snap := make(Snapshot, len(rs))
	for _, r := range rs {
		st, err := r.Probe(ctx, sp)
		if err != nil {
			log.Debug("probe failed, treating backend as absent",
				logx.String("backend", string(r.Kind())), logx.Err(err))
			st = State{}
		}
		snap[r.Kind()] = st
	}
	return snap
}
