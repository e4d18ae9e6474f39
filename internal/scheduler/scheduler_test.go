package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestRedisClientOptParsesURL(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@localhost:6380/2")
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.Addr != "localhost:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected opt: %+v", opt)
	}

	if _, err := redisClientOpt("not a url"); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}

func TestEverySpec(t *testing.T) {
	if got := everySpec(30 * time.Minute); got != "@every 30m0s" {
		t.Fatalf("everySpec = %q", got)
	}
	if got := everySpec(0); got != "@every 1h0m0s" {
		t.Fatalf("zero interval fallback = %q", got)
	}
}

func TestEnqueueDecisioningTasks(t *testing.T) {
	srv := miniredis.RunT(t)

	opt, err := redisClientOpt(fmt.Sprintf("redis://%s", srv.Addr()))
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}

	client := asynq.NewClient(opt)
	defer client.Close()

	info, err := client.EnqueueContext(context.Background(), NewLeadRescoreTask(), asynq.Queue("decisioning"))
	if err != nil {
		t.Fatalf("enqueue rescore: %v", err)
	}
	if info.Type != TaskLeadRescore || info.Queue != "decisioning" {
		t.Fatalf("unexpected task info: %+v", info)
	}

	info, err = client.EnqueueContext(context.Background(), NewAutoMatchTask(), asynq.Queue("decisioning"))
	if err != nil {
		t.Fatalf("enqueue auto match: %v", err)
	}
	if info.Type != TaskAutoMatch {
		t.Fatalf("unexpected task info: %+v", info)
	}
}
