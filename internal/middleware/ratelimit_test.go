package middleware

import "testing"

func TestRateLimiterBurstThenRefuse(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d within burst was refused", i)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request past burst was allowed")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	if !rl.allow("10.0.0.1") {
		t.Fatal("first client refused")
	}
	if rl.allow("10.0.0.1") {
		t.Error("first client not limited")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("second client throttled by first client's bucket")
	}
}
