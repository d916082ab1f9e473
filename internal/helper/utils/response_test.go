package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func doRequest(t *testing.T, handler fiber.Handler) (int, map[string]interface{}) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal body error: %v", err)
	}
	return resp.StatusCode, body
}

func TestResponseError_ApiError(t *testing.T) {
	status, body := doRequest(t, func(ctx *fiber.Ctx) error {
		return ResponseError(ctx, Conflict("Username or email already exists"))
	})

	if status != http.StatusConflict {
		t.Fatalf("status = %d, want 409", status)
	}
	if body["success"] != false {
		t.Fatalf("success = %v, want false", body["success"])
	}
	if body["message"] != "Username or email already exists" {
		t.Fatalf("message = %v", body["message"])
	}
	if _, ok := body["errors"].([]interface{}); !ok {
		t.Fatalf("errors is not a list: %v", body["errors"])
	}
}

func TestResponseError_UnknownErrorDoesNotLeak(t *testing.T) {
	status, body := doRequest(t, func(ctx *fiber.Ctx) error {
		return ResponseError(ctx, errors.New("pq: connection refused at 10.0.0.3"))
	})

	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if body["message"] != "Something went wrong" {
		t.Fatalf("internal detail leaked: %v", body["message"])
	}
}

func TestResponseError_WrappedApiError(t *testing.T) {
	status, _ := doRequest(t, func(ctx *fiber.Ctx) error {
		return ResponseError(ctx, fmt.Errorf("channel lookup: %w", NotFound("Channel does not exist")))
	})

	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestResponseSuccess(t *testing.T) {
	status, body := doRequest(t, func(ctx *fiber.Ctx) error {
		return ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{"id": 1}, "created")
	})

	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}
	if body["success"] != true {
		t.Fatalf("success = %v, want true", body["success"])
	}
	if body["message"] != "created" {
		t.Fatalf("message = %v", body["message"])
	}
}
