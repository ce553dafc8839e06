// Package driver runs vtable construction for whole sets of implementing
// types. Per-type work (graph build, prune, materialization) is independent
// and runs in parallel; the engine's layout and offset caches are shared and
// tolerate concurrent first computation as redundant work.
package driver

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"dyntab/internal/decl"
	"dyntab/internal/graph"
	"dyntab/internal/typedb"
	"dyntab/internal/vtable"
)

// Stage identifies a phase of one type's vtable construction.
type Stage uint8

const (
	StageGraph Stage = iota + 1
	StagePrune
	StageMaterialize
)

// Status is the progress state of one type.
type Status uint8

const (
	StatusQueued Status = iota + 1
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress notification for UI consumption.
type Event struct {
	Type   string
	Stage  Stage
	Status Status
}

// TypeResult is the outcome for one implementing type: one concrete vtable
// per root trait, in the order the type declares them.
type TypeResult struct {
	Type    string
	Roots   []decl.TraitID
	Vtables []*vtable.Concrete
	Err     error
}

// MaterializeAll builds every registered type's vtables. Results come back
// in sorted type-name order regardless of scheduling. A per-type failure is
// recorded in its TypeResult; only context cancellation aborts the batch.
// The events channel may be nil; when set, it is closed before return.
func MaterializeAll(ctx context.Context, eng *vtable.Engine, db *typedb.DB, jobs int, events chan<- Event) ([]TypeResult, error) {
	names := db.TypeNames()
	sort.Strings(names)

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Slots are per-goroutine unique, no mutex needed.
	results := make([]TypeResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(names), 1)))

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = materializeType(eng, db, name, events)
			return nil
		})
	}

	err := g.Wait()
	if events != nil {
		close(events)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func materializeType(eng *vtable.Engine, db *typedb.DB, typeName string, events chan<- Event) TypeResult {
	res := TypeResult{Type: typeName}
	emit := func(stage Stage, status Status) {
		if events != nil {
			events <- Event{Type: typeName, Stage: stage, Status: status}
		}
	}

	traitNames, err := db.Implements(typeName)
	if err != nil {
		res.Err = err
		emit(StageGraph, StatusError)
		return res
	}

	// Every declared trait gets a dynamic object in this offline tool, so
	// the declared set is also the root set.
	roots := make([]decl.TraitID, 0, len(traitNames))
	for _, traitName := range traitNames {
		id, ok := eng.Traits.Lookup(traitName)
		if !ok {
			res.Err = &typedb.Error{Kind: typedb.ErrUnknownTrait, Type: typeName, Detail: traitName}
			emit(StageGraph, StatusError)
			return res
		}
		roots = append(roots, id)
	}
	res.Roots = roots

	emit(StageGraph, StatusWorking)
	gr, err := graph.Build(eng.Traits, roots)
	if err != nil {
		res.Err = err
		emit(StageGraph, StatusError)
		return res
	}

	emit(StagePrune, StatusWorking)
	if err := gr.Prune(roots); err != nil {
		res.Err = err
		emit(StagePrune, StatusError)
		return res
	}

	emit(StageMaterialize, StatusWorking)
	for _, root := range roots {
		vt, err := eng.Materialize(db, typeName, root)
		if err != nil {
			res.Err = err
			emit(StageMaterialize, StatusError)
			return res
		}
		res.Vtables = append(res.Vtables, vt)
	}

	emit(StageMaterialize, StatusDone)
	return res
}
