package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fastygo/consistency/domain"
)

func TestFeedDrainsPerUser(t *testing.T) {
	feed := NewFeed(10)
	ctx := context.Background()
	feed.Notify(ctx, domain.Notification{UserID: "u1", Title: "a"})
	feed.Notify(ctx, domain.Notification{UserID: "u2", Title: "b"})
	feed.Notify(ctx, domain.Notification{UserID: "u1", Title: "c"})

	got := feed.Drain("u1")
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Fatalf("unexpected drain %+v", got)
	}
	if again := feed.Drain("u1"); len(again) != 0 {
		t.Fatalf("drain must clear the queue, got %+v", again)
	}
	if other := feed.Drain("u2"); len(other) != 1 {
		t.Fatalf("other users must be untouched, got %+v", other)
	}
}

func TestFeedDropsOldest(t *testing.T) {
	feed := NewFeed(3)
	for i := 0; i < 5; i++ {
		feed.Notify(context.Background(), domain.Notification{UserID: "u1", Title: fmt.Sprint(i)})
	}
	got := feed.Drain("u1")
	if len(got) != 3 || got[0].Title != "2" || got[2].Title != "4" {
		t.Fatalf("unexpected queue %+v", got)
	}
}

func TestFeedIgnoresAnonymous(t *testing.T) {
	feed := NewFeed(3)
	feed.Notify(context.Background(), domain.Notification{Title: "x"})
	if got := feed.Drain(""); len(got) != 0 {
		t.Fatalf("expected nothing, got %+v", got)
	}
}

type publisherFake struct {
	sent []domain.Notification
	err  error
}

func (p *publisherFake) Publish(_ context.Context, n domain.Notification) error {
	p.sent = append(p.sent, n)
	return p.err
}

func TestMultiFansOut(t *testing.T) {
	feed := NewFeed(5)
	pub := &publisherFake{err: errors.New("redis: connection pool timeout")}
	sink := Multi(feed, nil, NewPublishSink(pub, nil), NewLogSink(nil))

	sink.Notify(context.Background(), domain.Notification{UserID: "u1", Title: "Goal deleted"})

	if len(pub.sent) != 1 {
		t.Fatalf("expected one publish, got %d", len(pub.sent))
	}
	if got := feed.Drain("u1"); len(got) != 1 {
		t.Fatalf("publish failure must not affect other sinks, got %+v", got)
	}
}
