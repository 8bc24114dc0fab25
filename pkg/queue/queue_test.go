package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/objvault/pkg/queue"
)

// TestNewWatermillMessage 测试消息信封的构造与元数据填充.
func TestNewWatermillMessage(t *testing.T) {
	payload := queue.ObjectUploadedPayload{
		Object: queue.ObjectRef{
			ObjectID:  "01J8TESTOBJECT",
			Bucket:    "objvault",
			ObjectKey: "alice/2025/01/02/01J8TESTOBJECT.pdf",
			Size:      1024,
			MimeType:  "application/pdf",
		},
		OwnerID: "alice",
		Source:  "multipart",
		Parts:   3,
	}

	msg, err := queue.NewWatermillMessage(queue.TopicObjectUploaded, payload,
		queue.WithTraceID("trace-abc"),
		queue.WithProducer("objvault"),
	)
	if err != nil {
		t.Fatalf("NewWatermillMessage failed: %v", err)
	}

	if msg.UUID == "" {
		t.Error("Expected non-empty message UUID")
	}

	if got := msg.Metadata.Get("topic"); got != queue.TopicObjectUploaded {
		t.Errorf("Expected topic metadata %q, got %q", queue.TopicObjectUploaded, got)
	}

	if got := msg.Metadata.Get("trace_id"); got != "trace-abc" {
		t.Errorf("Expected trace_id metadata 'trace-abc', got %q", got)
	}

	env, err := queue.ParseObjectUploaded(msg)
	if err != nil {
		t.Fatalf("ParseObjectUploaded failed: %v", err)
	}

	if env.Header.Topic != queue.TopicObjectUploaded {
		t.Errorf("Expected header topic %q, got %q", queue.TopicObjectUploaded, env.Header.Topic)
	}

	if env.Header.Version != queue.PayloadVersionV1 {
		t.Errorf("Expected version %q, got %q", queue.PayloadVersionV1, env.Header.Version)
	}

	if env.Payload.Object.ObjectID != payload.Object.ObjectID {
		t.Errorf("Expected object id %q, got %q", payload.Object.ObjectID, env.Payload.Object.ObjectID)
	}

	if env.Payload.Parts != 3 {
		t.Errorf("Expected 3 parts, got %d", env.Payload.Parts)
	}
}

// TestPublishObjectUploaded 测试通过 gochannel Pub/Sub 的发布订阅闭环.
func TestPublishObjectUploaded(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, queue.TopicObjectUploaded)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	payload := queue.ObjectUploadedPayload{
		Object:  queue.ObjectRef{ObjectID: "01J8ROUNDTRIP", Bucket: "objvault", ObjectKey: "bob/x.bin"},
		OwnerID: "bob",
		Source:  "simple",
	}

	if err := queue.PublishObjectUploaded(pubSub, payload, queue.WithProducer("objvault-test")); err != nil {
		t.Fatalf("PublishObjectUploaded failed: %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()

		env, err := queue.ParseObjectUploaded(msg)
		if err != nil {
			t.Fatalf("ParseObjectUploaded failed: %v", err)
		}

		if env.Payload.OwnerID != "bob" {
			t.Errorf("Expected owner 'bob', got %q", env.Payload.OwnerID)
		}

		if env.Header.Producer != "objvault-test" {
			t.Errorf("Expected producer 'objvault-test', got %q", env.Header.Producer)
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for published message")
	}
}

// TestEncodeDecode 测试信封编解码对 UploadExpiredPayload 的往返.
func TestEncodeDecode(t *testing.T) {
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	env := queue.Message[queue.UploadExpiredPayload]{
		Header: queue.NewEventHeader(queue.TopicUploadExpired),
		Payload: queue.UploadExpiredPayload{
			Object:    queue.ObjectRef{ObjectID: "01J8EXPIRED", Bucket: "objvault", ObjectKey: "c/old.bin"},
			OwnerID:   "carol",
			StartedAt: started,
		},
	}

	data, err := queue.Encode(env)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := queue.Decode[queue.UploadExpiredPayload](data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !decoded.Payload.StartedAt.Equal(started) {
		t.Errorf("Expected started_at %v, got %v", started, decoded.Payload.StartedAt)
	}

	if decoded.Header.Topic != queue.TopicUploadExpired {
		t.Errorf("Expected topic %q, got %q", queue.TopicUploadExpired, decoded.Header.Topic)
	}
}
