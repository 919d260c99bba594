package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

var _ letterRepo = &letterRepoMock{}

type letterRepoMock struct {
	GetFunc func(ctx context.Context, owner uuid.UUID) (*domain.Letters, error)

	calls struct {
		Get []struct {
			Ctx   context.Context
			Owner uuid.UUID
		}
	}
	lockGet sync.RWMutex
}

func (mock *letterRepoMock) Get(ctx context.Context, owner uuid.UUID) (*domain.Letters, error) {
	if mock.GetFunc == nil {
		panic("letterRepoMock.GetFunc: method is nil but letterRepo.Get was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
	}{Ctx: ctx, Owner: owner}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, owner)
}

func (mock *letterRepoMock) GetCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}
