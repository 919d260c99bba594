package tagsync

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

var _ letterRepo = &letterRepoMock{}

type letterRepoMock struct {
	ApplyDeltasFunc func(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	ReplaceFunc     func(ctx context.Context, owner uuid.UUID, letters map[string]domain.LetterItem) error

	calls struct {
		ApplyDeltas []struct {
			Ctx    context.Context
			Owner  uuid.UUID
			Deltas map[string]int
		}
		Replace []struct {
			Ctx     context.Context
			Owner   uuid.UUID
			Letters map[string]domain.LetterItem
		}
	}
	lockApplyDeltas sync.RWMutex
	lockReplace     sync.RWMutex
}

func (mock *letterRepoMock) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	if mock.ApplyDeltasFunc == nil {
		panic("letterRepoMock.ApplyDeltasFunc: method is nil but letterRepo.ApplyDeltas was just called")
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

func (mock *letterRepoMock) ApplyDeltasCalls() []struct {
		Ctx    context.Context
		Owner  uuid.UUID
		Deltas map[string]int
} {
	mock.lockApplyDeltas.RLock()
	calls := mock.calls.ApplyDeltas
	mock.lockApplyDeltas.RUnlock()
	return calls
}

func (mock *letterRepoMock) Replace(ctx context.Context, owner uuid.UUID, letters map[string]domain.LetterItem) error {
	if mock.ReplaceFunc == nil {
		panic("letterRepoMock.ReplaceFunc: method is nil but letterRepo.Replace was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Owner   uuid.UUID
		Letters map[string]domain.LetterItem
	}{Ctx: ctx, Owner: owner, Letters: letters}
	mock.lockReplace.Lock()
	mock.calls.Replace = append(mock.calls.Replace, callInfo)
	mock.lockReplace.Unlock()
	return mock.ReplaceFunc(ctx, owner, letters)
}

func (mock *letterRepoMock) ReplaceCalls() []struct {
		Ctx     context.Context
		Owner   uuid.UUID
		Letters map[string]domain.LetterItem
} {
	mock.lockReplace.RLock()
	calls := mock.calls.Replace
	mock.lockReplace.RUnlock()
	return calls
}
