package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"postboard/internal/model"
)

type recordingStore struct {
	created []model.Activity
	err     error
}

func (s *recordingStore) Create(_ context.Context, activity *model.Activity) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *activity)
	return nil
}

type fakeDelivery struct {
	acked, nacked, requeued bool
}

func (d *fakeDelivery) Ack(bool) error {
	d.acked = true
	return nil
}

func (d *fakeDelivery) Nack(_, requeue bool) error {
	d.nacked = true
	d.requeued = requeue
	return nil
}

func TestActivityWorker_HandleStoresAndAcks(t *testing.T) {
	store := &recordingStore{}
	w := NewActivityWorker(nil, store, "q", zerolog.Nop())

	postID := uint(9)
	body, err := json.Marshal(model.Activity{ID: 77, UserID: 3, Kind: model.ActivityVoteAdded, PostID: &postID})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	d := &fakeDelivery{}
	w.handle(context.Background(), body, d)

	if !d.acked || d.nacked {
		t.Fatalf("delivery state: %+v", d)
	}
	if len(store.created) != 1 {
		t.Fatalf("stored %d activities", len(store.created))
	}
	got := store.created[0]
	if got.ID != 0 || got.UserID != 3 || got.Kind != model.ActivityVoteAdded || got.PostID == nil || *got.PostID != 9 {
		t.Errorf("unexpected activity: %+v", got)
	}
}

func TestActivityWorker_HandleDropsBadMessages(t *testing.T) {
	w := NewActivityWorker(nil, &recordingStore{}, "q", zerolog.Nop())
	d := &fakeDelivery{}
	w.handle(context.Background(), []byte("{not json"), d)
	if !d.nacked || d.requeued || d.acked {
		t.Fatalf("bad json delivery state: %+v", d)
	}

	failing := NewActivityWorker(nil, &recordingStore{err: errors.New("db down")}, "q", zerolog.Nop())
	d = &fakeDelivery{}
	failing.handle(context.Background(), []byte(`{"user_id":1,"kind":"post.created"}`), d)
	if !d.nacked || d.requeued {
		t.Fatalf("store failure delivery state: %+v", d)
	}
}
