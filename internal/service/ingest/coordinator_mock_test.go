package ingest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
	"github.com/heartmarshall/feedtags-backend/internal/service/tagsync"
)

var _ coordinator = &coordinatorMock{}

type coordinatorMock struct {
	IngestFunc     func(ctx context.Context, owner uuid.UUID, tags []string, biGrams []string, unread bool) error
	ToggleReadFunc func(ctx context.Context, owner uuid.UUID, occ domain.Occurrences, markingRead bool) (tagsync.ToggleResult, error)

	calls struct {
		Ingest []struct {
			Ctx     context.Context
			Owner   uuid.UUID
			Tags    []string
			BiGrams []string
			Unread  bool
		}
		ToggleRead []struct {
			Ctx         context.Context
			Owner       uuid.UUID
			Occ         domain.Occurrences
			MarkingRead bool
		}
	}
	lockIngest     sync.RWMutex
	lockToggleRead sync.RWMutex
}

func (mock *coordinatorMock) Ingest(ctx context.Context, owner uuid.UUID, tags []string, biGrams []string, unread bool) error {
	if mock.IngestFunc == nil {
		panic("coordinatorMock.IngestFunc: method is nil but coordinator.Ingest was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Owner   uuid.UUID
		Tags    []string
		BiGrams []string
		Unread  bool
	}{Ctx: ctx, Owner: owner, Tags: tags, BiGrams: biGrams, Unread: unread}
	mock.lockIngest.Lock()
	mock.calls.Ingest = append(mock.calls.Ingest, callInfo)
	mock.lockIngest.Unlock()
	return mock.IngestFunc(ctx, owner, tags, biGrams, unread)
}

func (mock *coordinatorMock) IngestCalls() []struct {
	Ctx     context.Context
	Owner   uuid.UUID
	Tags    []string
	BiGrams []string
	Unread  bool
} {
	mock.lockIngest.RLock()
	calls := mock.calls.Ingest
	mock.lockIngest.RUnlock()
	return calls
}

func (mock *coordinatorMock) ToggleRead(ctx context.Context, owner uuid.UUID, occ domain.Occurrences, markingRead bool) (tagsync.ToggleResult, error) {
	if mock.ToggleReadFunc == nil {
		panic("coordinatorMock.ToggleReadFunc: method is nil but coordinator.ToggleRead was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Owner       uuid.UUID
		Occ         domain.Occurrences
		MarkingRead bool
	}{Ctx: ctx, Owner: owner, Occ: occ, MarkingRead: markingRead}
	mock.lockToggleRead.Lock()
	mock.calls.ToggleRead = append(mock.calls.ToggleRead, callInfo)
	mock.lockToggleRead.Unlock()
	return mock.ToggleReadFunc(ctx, owner, occ, markingRead)
}

func (mock *coordinatorMock) ToggleReadCalls() []struct {
	Ctx         context.Context
	Owner       uuid.UUID
	Occ         domain.Occurrences
	MarkingRead bool
} {
	mock.lockToggleRead.RLock()
	calls := mock.calls.ToggleRead
	mock.lockToggleRead.RUnlock()
	return calls
}
