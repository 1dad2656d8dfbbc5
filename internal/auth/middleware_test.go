package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestJWTMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		if c.Locals("user_id") == nil {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		return c.SendStatus(http.StatusOK)
	})

	svc := newTestService(nil)

	// missing token
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}

	// valid token
	token, _ := svc.signToken("user-1", accessTokenTTL)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}
}

func TestOptionalJWT(t *testing.T) {
	app := fiber.New()
	app.Get("/maybe", OptionalJWT("secret"), func(c *fiber.Ctx) error {
		if uid, ok := c.Locals("user_id").(string); ok {
			return c.JSON(fiber.Map{"user_id": uid})
		}
		return c.JSON(fiber.Map{"user_id": nil})
	})

	// anonymous passes through
	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok for anonymous")
	}

	// garbage token also passes through anonymously
	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok for bad token")
	}

	// valid token sets the local
	svc := newTestService(nil)
	token, _ := svc.signToken("user-1", accessTokenTTL)
	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok for valid token")
	}
}

func TestBearerFromHeader(t *testing.T) {
	if bearerFromHeader("Bearer abc") != "abc" {
		t.Fatalf("expected token")
	}
	if bearerFromHeader("Basic abc") != "" {
		t.Fatalf("expected empty for non-bearer scheme")
	}
	if bearerFromHeader("") != "" {
		t.Fatalf("expected empty for missing header")
	}
}
