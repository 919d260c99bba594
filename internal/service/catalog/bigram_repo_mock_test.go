package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

var _ biGramRepo = &biGramRepoMock{}

type biGramRepoMock struct {
	GetFunc   func(ctx context.Context, owner uuid.UUID, key string) (*domain.BiGram, error)
	ListFunc  func(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.BiGram, error)
	CountFunc func(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error)

	calls struct {
		Get []struct {
			Ctx   context.Context
			Owner uuid.UUID
			Key   string
		}
		List []struct {
			Ctx   context.Context
			Owner uuid.UUID
			Opts  domain.QueryOptions
		}
		Count []struct {
			Ctx   context.Context
			Owner uuid.UUID
			Opts  domain.QueryOptions
		}
	}
	lockGet   sync.RWMutex
	lockList  sync.RWMutex
	lockCount sync.RWMutex
}

func (mock *biGramRepoMock) Get(ctx context.Context, owner uuid.UUID, key string) (*domain.BiGram, error) {
	if mock.GetFunc == nil {
		panic("biGramRepoMock.GetFunc: method is nil but biGramRepo.Get was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
		Key   string
	}{Ctx: ctx, Owner: owner, Key: key}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, owner, key)
}

func (mock *biGramRepoMock) GetCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	Key   string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *biGramRepoMock) List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.BiGram, error) {
	if mock.ListFunc == nil {
		panic("biGramRepoMock.ListFunc: method is nil but biGramRepo.List was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
		Opts  domain.QueryOptions
	}{Ctx: ctx, Owner: owner, Opts: opts}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, owner, opts)
}

func (mock *biGramRepoMock) ListCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	Opts  domain.QueryOptions
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *biGramRepoMock) Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error) {
	if mock.CountFunc == nil {
		panic("biGramRepoMock.CountFunc: method is nil but biGramRepo.Count was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
		Opts  domain.QueryOptions
	}{Ctx: ctx, Owner: owner, Opts: opts}
	mock.lockCount.Lock()
	mock.calls.Count = append(mock.calls.Count, callInfo)
	mock.lockCount.Unlock()
	return mock.CountFunc(ctx, owner, opts)
}

func (mock *biGramRepoMock) CountCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	Opts  domain.QueryOptions
} {
	mock.lockCount.RLock()
	calls := mock.calls.Count
	mock.lockCount.RUnlock()
	return calls
}
