package tagsync

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ biGramRepo = &biGramRepoMock{}

type biGramRepoMock struct {
	UpsertFunc           func(ctx context.Context, owner uuid.UUID, keys []string, unread bool) error
	ApplyDeltasFunc      func(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	DecayTemperatureFunc func(ctx context.Context, factor float64) (int64, error)

	calls struct {
		Upsert []struct {
			Ctx    context.Context
			Owner  uuid.UUID
			Keys   []string
			Unread bool
		}
		ApplyDeltas []struct {
			Ctx    context.Context
			Owner  uuid.UUID
			Deltas map[string]int
		}
		DecayTemperature []struct {
			Ctx    context.Context
			Factor float64
		}
	}
	lockUpsert           sync.RWMutex
	lockApplyDeltas      sync.RWMutex
	lockDecayTemperature sync.RWMutex
}

func (mock *biGramRepoMock) Upsert(ctx context.Context, owner uuid.UUID, keys []string, unread bool) error {
	if mock.UpsertFunc == nil {
		panic("biGramRepoMock.UpsertFunc: method is nil but biGramRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Owner  uuid.UUID
		Keys   []string
		Unread bool
	}{Ctx: ctx, Owner: owner, Keys: keys, Unread: unread}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, owner, keys, unread)
}

func (mock *biGramRepoMock) UpsertCalls() []struct {
		Ctx    context.Context
		Owner  uuid.UUID
		Keys   []string
		Unread bool
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}

func (mock *biGramRepoMock) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	if mock.ApplyDeltasFunc == nil {
		panic("biGramRepoMock.ApplyDeltasFunc: method is nil but biGramRepo.ApplyDeltas was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Owner  uuid.UUID
		Deltas map[string]int
	}{Ctx: ctx, Owner: owner, Deltas: deltas}
	mock.lockApplyDeltas.Lock()
	mock.calls.ApplyDeltas = append(mock.calls.ApplyDeltas, callInfo)
	mock.lockApplyDeltas.Unlock()
	return mock.ApplyDeltasFunc(ctx, owner, deltas)
}

func (mock *biGramRepoMock) ApplyDeltasCalls() []struct {
		Ctx    context.Context
		Owner  uuid.UUID
		Deltas map[string]int
} {
	mock.lockApplyDeltas.RLock()
	calls := mock.calls.ApplyDeltas
	mock.lockApplyDeltas.RUnlock()
	return calls
}

func (mock *biGramRepoMock) DecayTemperature(ctx context.Context, factor float64) (int64, error) {
	if mock.DecayTemperatureFunc == nil {
		panic("biGramRepoMock.DecayTemperatureFunc: method is nil but biGramRepo.DecayTemperature was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Factor float64
	}{Ctx: ctx, Factor: factor}
	mock.lockDecayTemperature.Lock()
	mock.calls.DecayTemperature = append(mock.calls.DecayTemperature, callInfo)
	mock.lockDecayTemperature.Unlock()
	return mock.DecayTemperatureFunc(ctx, factor)
}

func (mock *biGramRepoMock) DecayTemperatureCalls() []struct {
		Ctx    context.Context
		Factor float64
} {
	mock.lockDecayTemperature.RLock()
	calls := mock.calls.DecayTemperature
	mock.lockDecayTemperature.RUnlock()
	return calls
}
