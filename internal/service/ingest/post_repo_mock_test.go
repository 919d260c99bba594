package ingest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

var _ postRepo = &postRepoMock{}

type postRepoMock struct {
	InsertFunc        func(ctx context.Context, p domain.Post) error
	GetFunc           func(ctx context.Context, owner uuid.UUID, id uuid.UUID) (*domain.Post, error)
	PendingOwnersFunc func(ctx context.Context) ([]uuid.UUID, error)
	ClaimPendingFunc  func(ctx context.Context, owner uuid.UUID, limit int) ([]domain.Post, error)
	SaveTagsFunc      func(ctx context.Context, id uuid.UUID, tags []string, biGrams []string) error
	ReleaseFunc       func(ctx context.Context, id uuid.UUID) error
	SetReadFunc       func(ctx context.Context, owner uuid.UUID, ids []uuid.UUID, read bool) ([]domain.Post, error)

	calls struct {
		Insert []struct {
			Ctx context.Context
			P   domain.Post
		}
		Get []struct {
			Ctx   context.Context
			Owner uuid.UUID
			ID    uuid.UUID
		}
		PendingOwners []struct {
			Ctx context.Context
		}
		ClaimPending []struct {
			Ctx   context.Context
			Owner uuid.UUID
			Limit int
		}
		SaveTags []struct {
			Ctx     context.Context
			ID      uuid.UUID
			Tags    []string
			BiGrams []string
		}
		Release []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		SetRead []struct {
			Ctx   context.Context
			Owner uuid.UUID
			IDs   []uuid.UUID
			Read  bool
		}
	}
	lockInsert        sync.RWMutex
	lockGet           sync.RWMutex
	lockPendingOwners sync.RWMutex
	lockClaimPending  sync.RWMutex
	lockSaveTags      sync.RWMutex
	lockRelease       sync.RWMutex
	lockSetRead       sync.RWMutex
}

func (mock *postRepoMock) Insert(ctx context.Context, p domain.Post) error {
	if mock.InsertFunc == nil {
		panic("postRepoMock.InsertFunc: method is nil but postRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		P   domain.Post
	}{Ctx: ctx, P: p}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, p)
}

func (mock *postRepoMock) InsertCalls() []struct {
	Ctx context.Context
	P   domain.Post
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

func (mock *postRepoMock) Get(ctx context.Context, owner uuid.UUID, id uuid.UUID) (*domain.Post, error) {
	if mock.GetFunc == nil {
		panic("postRepoMock.GetFunc: method is nil but postRepo.Get was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
		ID    uuid.UUID
	}{Ctx: ctx, Owner: owner, ID: id}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, owner, id)
}

func (mock *postRepoMock) GetCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	ID    uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *postRepoMock) PendingOwners(ctx context.Context) ([]uuid.UUID, error) {
	if mock.PendingOwnersFunc == nil {
		panic("postRepoMock.PendingOwnersFunc: method is nil but postRepo.PendingOwners was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockPendingOwners.Lock()
	mock.calls.PendingOwners = append(mock.calls.PendingOwners, callInfo)
	mock.lockPendingOwners.Unlock()
	return mock.PendingOwnersFunc(ctx)
}

func (mock *postRepoMock) PendingOwnersCalls() []struct {
	Ctx context.Context
} {
	mock.lockPendingOwners.RLock()
	calls := mock.calls.PendingOwners
	mock.lockPendingOwners.RUnlock()
	return calls
}

func (mock *postRepoMock) ClaimPending(ctx context.Context, owner uuid.UUID, limit int) ([]domain.Post, error) {
	if mock.ClaimPendingFunc == nil {
		panic("postRepoMock.ClaimPendingFunc: method is nil but postRepo.ClaimPending was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
		Limit int
	}{Ctx: ctx, Owner: owner, Limit: limit}
	mock.lockClaimPending.Lock()
	mock.calls.ClaimPending = append(mock.calls.ClaimPending, callInfo)
	mock.lockClaimPending.Unlock()
	return mock.ClaimPendingFunc(ctx, owner, limit)
}

func (mock *postRepoMock) ClaimPendingCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	Limit int
} {
	mock.lockClaimPending.RLock()
	calls := mock.calls.ClaimPending
	mock.lockClaimPending.RUnlock()
	return calls
}

func (mock *postRepoMock) SaveTags(ctx context.Context, id uuid.UUID, tags []string, biGrams []string) error {
	if mock.SaveTagsFunc == nil {
		panic("postRepoMock.SaveTagsFunc: method is nil but postRepo.SaveTags was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ID      uuid.UUID
		Tags    []string
		BiGrams []string
	}{Ctx: ctx, ID: id, Tags: tags, BiGrams: biGrams}
	mock.lockSaveTags.Lock()
	mock.calls.SaveTags = append(mock.calls.SaveTags, callInfo)
	mock.lockSaveTags.Unlock()
	return mock.SaveTagsFunc(ctx, id, tags, biGrams)
}

func (mock *postRepoMock) SaveTagsCalls() []struct {
	Ctx     context.Context
	ID      uuid.UUID
	Tags    []string
	BiGrams []string
} {
	mock.lockSaveTags.RLock()
	calls := mock.calls.SaveTags
	mock.lockSaveTags.RUnlock()
	return calls
}

func (mock *postRepoMock) Release(ctx context.Context, id uuid.UUID) error {
	if mock.ReleaseFunc == nil {
		panic("postRepoMock.ReleaseFunc: method is nil but postRepo.Release was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockRelease.Lock()
	mock.calls.Release = append(mock.calls.Release, callInfo)
	mock.lockRelease.Unlock()
	return mock.ReleaseFunc(ctx, id)
}

func (mock *postRepoMock) ReleaseCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockRelease.RLock()
	calls := mock.calls.Release
	mock.lockRelease.RUnlock()
	return calls
}

func (mock *postRepoMock) SetRead(ctx context.Context, owner uuid.UUID, ids []uuid.UUID, read bool) ([]domain.Post, error) {
	if mock.SetReadFunc == nil {
		panic("postRepoMock.SetReadFunc: method is nil but postRepo.SetRead was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner uuid.UUID
		IDs   []uuid.UUID
		Read  bool
	}{Ctx: ctx, Owner: owner, IDs: ids, Read: read}
	mock.lockSetRead.Lock()
	mock.calls.SetRead = append(mock.calls.SetRead, callInfo)
	mock.lockSetRead.Unlock()
	return mock.SetReadFunc(ctx, owner, ids, read)
}

func (mock *postRepoMock) SetReadCalls() []struct {
	Ctx   context.Context
	Owner uuid.UUID
	IDs   []uuid.UUID
	Read  bool
} {
	mock.lockSetRead.RLock()
	calls := mock.calls.SetRead
	mock.lockSetRead.RUnlock()
	return calls
}
