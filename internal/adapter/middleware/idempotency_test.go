package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const reqID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	s := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func idempContext(e *echo.Echo, method, body string, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/loans/apply", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/apply")
	SetIdentity(c, "alice@example.com", false)
	return c, rec
}

func validHeaders() map[string]string {
	return map[string]string{
		"Ax-Request-Id": reqID,
		"Ax-Request-At": strconv.FormatInt(time.Now().Unix(), 10),
	}
}

func TestIdempotency_PassThroughAndReplay(t *testing.T) {
	e := echo.New()
	rdb := testRedis(t)
	mw := IdempotencyMiddleware(rdb, time.Minute)

	calls := 0
	handler := mw(func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusCreated, map[string]string{"loan_id": "x"})
	})

	c1, rec1 := idempContext(e, http.MethodPost, `{"amount":3000}`, validHeaders())
	if err := handler(c1); err != nil {
		t.Fatalf("first call err: %v", err)
	}
	if rec1.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("first call: code=%d calls=%d", rec1.Code, calls)
	}

	// Same key, same body: replay without re-running the handler.
	c2, rec2 := idempContext(e, http.MethodPost, `{"amount":3000}`, validHeaders())
	if err := handler(c2); err != nil {
		t.Fatalf("second call err: %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler re-ran on replay: calls=%d", calls)
	}
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay code = %d, want 201", rec2.Code)
	}
	if !strings.Contains(rec2.Body.String(), "loan_id") {
		t.Fatalf("replay body = %q", rec2.Body.String())
	}
}

func TestIdempotency_ConflictOnBodyMismatch(t *testing.T) {
	e := echo.New()
	rdb := testRedis(t)
	mw := IdempotencyMiddleware(rdb, time.Minute)
	handler := mw(func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]string{"ok": "1"})
	})

	c1, _ := idempContext(e, http.MethodPost, `{"amount":3000}`, validHeaders())
	if err := handler(c1); err != nil {
		t.Fatalf("first call err: %v", err)
	}

	c2, rec2 := idempContext(e, http.MethodPost, `{"amount":9999}`, validHeaders())
	if err := handler(c2); err != nil {
		t.Fatalf("second call err: %v", err)
	}
	if rec2.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", rec2.Code)
	}
}

func TestIdempotency_SkipsReads(t *testing.T) {
	e := echo.New()
	rdb := testRedis(t)
	mw := IdempotencyMiddleware(rdb, time.Minute)

	calls := 0
	handler := mw(func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	})

	// No idempotency headers at all: GET must still pass.
	c, rec := idempContext(e, http.MethodGet, "", nil)
	if err := handler(c); err != nil {
		t.Fatalf("GET err: %v", err)
	}
	if rec.Code != http.StatusOK || calls != 1 {
		t.Fatalf("GET blocked: code=%d calls=%d", rec.Code, calls)
	}
}

func TestIdempotency_MissingHeaders(t *testing.T) {
	e := echo.New()
	rdb := testRedis(t)
	handler := IdempotencyMiddleware(rdb, time.Minute)(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	c, rec := idempContext(e, http.MethodPost, "{}", nil)
	if err := handler(c); err != nil {
		t.Fatalf("err: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestIdempotency_SkewedTimestamp(t *testing.T) {
	e := echo.New()
	rdb := testRedis(t)
	handler := IdempotencyMiddleware(rdb, time.Minute)(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	h := validHeaders()
	h["Ax-Request-At"] = strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	c, rec := idempContext(e, http.MethodPost, "{}", h)
	if err := handler(c); err != nil {
		t.Fatalf("err: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestParseAxRequestAt(t *testing.T) {
	if _, err := parseAxRequestAt("2025-09-05T10:00:00Z"); err != nil {
		t.Errorf("RFC3339 with zone rejected: %v", err)
	}
	if _, err := parseAxRequestAt("1736123456789"); err != nil {
		t.Errorf("epoch ms rejected: %v", err)
	}
	if _, err := parseAxRequestAt("2025-09-05T10:00:00"); err == nil {
		t.Error("naive timestamp accepted")
	}
	if _, err := parseAxRequestAt(""); err == nil {
		t.Error("empty accepted")
	}
}
