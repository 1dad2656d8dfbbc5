package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	rl := newRateLimiter(rate.Limit(0), 2)

	app := fiber.New()
	app.Get("/", rl.Middleware(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("request error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d within burst must pass, got %d", i, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", resp.StatusCode)
	}
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := newRateLimiter(rate.Limit(0), 1)

	a := rl.limiter("10.0.0.1")
	b := rl.limiter("10.0.0.2")
	if a == b {
		t.Fatalf("distinct IPs must get distinct buckets")
	}
	if rl.limiter("10.0.0.1") != a {
		t.Fatalf("same IP must reuse its bucket")
	}

	if !a.Allow() {
		t.Fatalf("first request must pass")
	}
	if a.Allow() {
		t.Fatalf("second request must be blocked")
	}
	if !b.Allow() {
		t.Fatalf("other IP must be unaffected")
	}
}
