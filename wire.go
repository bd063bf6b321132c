package remora

import "time"

// ObjectKind tags the variant carried by an InputObjectKind.
type ObjectKind int

const (
	// ImmOrOwned is an immutable or single-owner object. Its id is part
	// of the dependency footprint, so transactions naming the same one
	// are ordered like those sharing a Shared object.
	ImmOrOwned ObjectKind = iota
	// Shared is a shared object that may be read or written by many
	// transactions; overlapping footprints must be serialised.
	Shared
	// Package is code, never mutated by a transaction; ignored by the
	// dependency layer.
	Package
)

// ObjectID identifies an object in the store. Kept as a plain string so
// the core stays agnostic to any particular chain's address encoding.
type ObjectID string

// InputObjectKind is one entry of a transaction's declared input-object
// footprint.
type InputObjectKind struct {
	Kind           ObjectKind
	ID             ObjectID
	InitialVersion uint64 // meaningful only when Kind == Shared
	Mutable        bool   // meaningful only when Kind == Shared
}

// NewImmOrOwnedObject builds an ImmOrOwned input object kind.
func NewImmOrOwnedObject(id ObjectID) InputObjectKind {
	return InputObjectKind{Kind: ImmOrOwned, ID: id}
}

// NewSharedObject builds a Shared input object kind.
func NewSharedObject(id ObjectID, initialVersion uint64, mutable bool) InputObjectKind {
	return InputObjectKind{Kind: Shared, ID: id, InitialVersion: initialVersion, Mutable: mutable}
}

// NewPackageObject builds a Package input object kind. Packages never
// contribute to the dependency footprint.
func NewPackageObject(id ObjectID) InputObjectKind {
	return InputObjectKind{Kind: Package, ID: id}
}

// InputObjectAware is implemented by a transaction payload type, exposing
// the set of objects it reads or writes.
type InputObjectAware interface {
	InputObjects() []InputObjectKind
}

// TransactionWithTimestamp wraps an opaque payload with the wall-clock
// time it was admitted at the ingress boundary. Copies are cheap: a
// transaction is fanned out to the consensus sink and to one proxy by
// sharing the same pointer, mirroring the original's clone-on-send.
type TransactionWithTimestamp[T InputObjectAware] struct {
	Payload   T
	Timestamp time.Time
}

// NewTransactionWithTimestamp stamps payload with the current time.
func NewTransactionWithTimestamp[T InputObjectAware](payload T) *TransactionWithTimestamp[T] {
	return &TransactionWithTimestamp[T]{Payload: payload, Timestamp: time.Now()}
}

// InputObjects delegates to the wrapped payload.
func (t *TransactionWithTimestamp[T]) InputObjects() []InputObjectKind {
	return t.Payload.InputObjects()
}

// Footprint reduces InputObjects to the set of object ids that matter to
// the dependency controller: ImmOrOwned and Shared, with Package and
// duplicates dropped. Order of the result is the order objects were
// first seen.
func (t *TransactionWithTimestamp[T]) Footprint() []ObjectID {
	return footprintOf(t.InputObjects())
}

func footprintOf(kinds []InputObjectKind) []ObjectID {
	if len(kinds) == 0 {
		return nil
	}
	seen := make(map[ObjectID]struct{}, len(kinds))
	out := make([]ObjectID, 0, len(kinds))
	for _, k := range kinds {
		if k.Kind == Package {
			continue
		}
		if _, dup := seen[k.ID]; dup {
			continue
		}
		seen[k.ID] = struct{}{}
		out = append(out, k.ID)
	}
	return out
}

// Effects is the opaque, executor-produced record of a transaction's
// state changes. The core only ever observes Success(), used by tests
// and by the "dependency signals still fire on executor failure"
// invariant — it never branches execution behavior on it.
type Effects interface {
	Success() bool
}

// ProxyID is a stable identifier of a proxy worker: its index within the
// load balancer's round-robin pool.
type ProxyID = int
