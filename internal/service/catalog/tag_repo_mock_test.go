package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

var _ tagRepo = &tagRepoMock{}

type tagRepoMock struct {
	GetFunc   func(ctx context.Context, owner uuid.UUID, tag string) (*domain.Tag, error)
	ListFunc  func(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.Tag, error)
	CountFunc func(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error)

	calls struct {
		Get []struct {
			Ctx   context.Context
			Owner uuid.UUID
			Tag   string
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

func (mock *tagRepoMock) Get(ctx context.Context, owner uuid.UUID, tag string) (*domain.Tag, error) {
	if mock.GetFunc == nil {
		panic("tagRepoMock.GetFunc: method is nil but tagRepo.Get was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
		Tag   string
	}{Ctx: ctx, Owner: owner, Tag: tag}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, owner, tag)
}

func (mock *tagRepoMock) GetCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	Tag   string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *tagRepoMock) List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.Tag, error) {
	if mock.ListFunc == nil {
		panic("tagRepoMock.ListFunc: method is nil but tagRepo.List was just called")
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

func (mock *tagRepoMock) ListCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	Opts  domain.QueryOptions
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *tagRepoMock) Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error) {
	if mock.CountFunc == nil {
		panic("tagRepoMock.CountFunc: method is nil but tagRepo.Count was just called")
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

func (mock *tagRepoMock) CountCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	Opts  domain.QueryOptions
} {
	mock.lockCount.RLock()
	calls := mock.calls.Count
	mock.lockCount.RUnlock()
	return calls
}
