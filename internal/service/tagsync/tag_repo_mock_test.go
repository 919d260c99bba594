package tagsync

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

var _ tagRepo = &tagRepoMock{}

type tagRepoMock struct {
	UpsertFunc           func(ctx context.Context, owner uuid.UUID, tags []string, unread bool) error
	ApplyDeltasFunc      func(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	ListAllFunc          func(ctx context.Context, owner uuid.UUID) ([]domain.Tag, error)
	OwnersFunc           func(ctx context.Context) ([]uuid.UUID, error)
	DecayTemperatureFunc func(ctx context.Context, factor float64) (int64, error)

	calls struct {
		Upsert []struct {
			Ctx    context.Context
			Owner  uuid.UUID
			Tags   []string
			Unread bool
		}
		ApplyDeltas []struct {
			Ctx    context.Context
			Owner  uuid.UUID
			Deltas map[string]int
		}
		ListAll []struct {
			Ctx   context.Context
			Owner uuid.UUID
		}
		Owners []struct {
			Ctx context.Context
		}
		DecayTemperature []struct {
			Ctx    context.Context
			Factor float64
		}
	}
	lockUpsert           sync.RWMutex
	lockApplyDeltas      sync.RWMutex
	lockListAll          sync.RWMutex
	lockOwners           sync.RWMutex
	lockDecayTemperature sync.RWMutex
}

func (mock *tagRepoMock) Upsert(ctx context.Context, owner uuid.UUID, tags []string, unread bool) error {
	if mock.UpsertFunc == nil {
		panic("tagRepoMock.UpsertFunc: method is nil but tagRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Owner  uuid.UUID
		Tags   []string
		Unread bool
	}{Ctx: ctx, Owner: owner, Tags: tags, Unread: unread}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, owner, tags, unread)
}

func (mock *tagRepoMock) UpsertCalls() []struct {
		Ctx    context.Context
		Owner  uuid.UUID
		Tags   []string
		Unread bool
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}

func (mock *tagRepoMock) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	if mock.ApplyDeltasFunc == nil {
		panic("tagRepoMock.ApplyDeltasFunc: method is nil but tagRepo.ApplyDeltas was just called")
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

func (mock *tagRepoMock) ApplyDeltasCalls() []struct {
		Ctx    context.Context
		Owner  uuid.UUID
		Deltas map[string]int
} {
	mock.lockApplyDeltas.RLock()
	calls := mock.calls.ApplyDeltas
	mock.lockApplyDeltas.RUnlock()
	return calls
}

func (mock *tagRepoMock) ListAll(ctx context.Context, owner uuid.UUID) ([]domain.Tag, error) {
	if mock.ListAllFunc == nil {
		panic("tagRepoMock.ListAllFunc: method is nil but tagRepo.ListAll was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
	}{Ctx: ctx, Owner: owner}
	mock.lockListAll.Lock()
	mock.calls.ListAll = append(mock.calls.ListAll, callInfo)
	mock.lockListAll.Unlock()
	return mock.ListAllFunc(ctx, owner)
}

func (mock *tagRepoMock) ListAllCalls() []struct {
		Ctx   context.Context
		Owner uuid.UUID
} {
	mock.lockListAll.RLock()
	calls := mock.calls.ListAll
	mock.lockListAll.RUnlock()
	return calls
}

func (mock *tagRepoMock) Owners(ctx context.Context) ([]uuid.UUID, error) {
	if mock.OwnersFunc == nil {
		panic("tagRepoMock.OwnersFunc: method is nil but tagRepo.Owners was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockOwners.Lock()
	mock.calls.Owners = append(mock.calls.Owners, callInfo)
	mock.lockOwners.Unlock()
	return mock.OwnersFunc(ctx)
}

func (mock *tagRepoMock) OwnersCalls() []struct {
		Ctx context.Context
} {
	mock.lockOwners.RLock()
	calls := mock.calls.Owners
	mock.lockOwners.RUnlock()
	return calls
}

func (mock *tagRepoMock) DecayTemperature(ctx context.Context, factor float64) (int64, error) {
	if mock.DecayTemperatureFunc == nil {
		panic("tagRepoMock.DecayTemperatureFunc: method is nil but tagRepo.DecayTemperature was just called")
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

func (mock *tagRepoMock) DecayTemperatureCalls() []struct {
		Ctx    context.Context
		Factor float64
} {
	mock.lockDecayTemperature.RLock()
	calls := mock.calls.DecayTemperature
	mock.lockDecayTemperature.RUnlock()
	return calls
}
