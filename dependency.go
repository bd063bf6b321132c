package remora

// universalObjectID is the constant footprint key the sequential proxy
// variant uses so that every admitted task overlaps with every other and
// execution is forced serial through the exact same controller the
// dependency-parallel variant uses, per SPEC_FULL.md §4.2.
const universalObjectID ObjectID = "\x00universal"

// dependencyController holds, for one proxy, the signal of the most
// recently admitted task declared against each object id. It is owned
// exclusively by that proxy's single-threaded admission loop: admission
// is a plain map read-modify-write, not a locked one, because the proxy
// never calls admit concurrently with itself (SPEC_FULL.md §9.2,
// "Admission serialisation").
type dependencyController struct {
	pending map[ObjectID]*signal
}

func newDependencyController() *dependencyController {
	return &dependencyController{pending: make(map[ObjectID]*signal)}
}

// admit registers a newly admitted task's footprint and returns the
// signals it must wait on before executing (prior) and the signal it
// must fire exactly once after executing (current). Duplicate object
// ids within footprint collapse to a single prior entry. Iteration
// order over footprint does not matter; the result is deterministic in
// the sense that every earlier overlapping admission is represented,
// possibly by a chain of intermediate tasks rather than directly.
func (d *dependencyController) admit(footprint []ObjectID) (prior []*signal, current *signal) {
	current = newSignal()
	if len(footprint) == 0 {
		return nil, current
	}

	seen := make(map[ObjectID]struct{}, len(footprint))
	for _, id := range footprint {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if prev, ok := d.pending[id]; ok {
			prior = append(prior, prev)
		}
		d.pending[id] = current
	}
	return prior, current
}
