package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/auth"
	"github.com/Lixing-Zhang/orderboard/internal/cart"
	"github.com/Lixing-Zhang/orderboard/internal/repository"
	"github.com/Lixing-Zhang/orderboard/internal/service"
	"github.com/Lixing-Zhang/orderboard/internal/store"
	"github.com/Lixing-Zhang/orderboard/internal/token"
	"github.com/shopspring/decimal"
)

type testAPI struct {
	handler http.Handler
	token   string
	dosa    int64
	coffee  int64
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithStore(t, store.NewMemoryStore())
}

func newTestAPIWithStore(t *testing.T, st store.OrderStore) *testAPI {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	menu := service.NewMenuService(repository.NewInMemoryMenuRepository())
	dosa, err := menu.AddItem(ctx, "Dosa", decimal.NewFromInt(80))
	if err != nil {
		t.Fatal(err)
	}
	coffee, err := menu.AddItem(ctx, "Coffee", decimal.NewFromInt(40))
	if err != nil {
		t.Fatal(err)
	}

	tokens := auth.NewManager("0123456789abcdef", "orderboard", time.Hour)
	signed, err := tokens.Issue("manager-1", "")
	if err != nil {
		t.Fatal(err)
	}

	orders := service.NewOrderService(st, menu, token.NewGenerator(nil), service.WithLogger(log))

	h := NewRouter(RouterConfig{
		Menu:      menu,
		Orders:    orders,
		Carts:     cart.NewSessions(),
		Tokens:    tokens,
		Retention: 10 * time.Minute,
		Logger:    log,
	})

	return &testAPI{handler: h, token: signed, dosa: dosa.ID, coffee: coffee.ID}
}

// do sends body (a string is sent raw, anything else as JSON) and decodes
// the response into out when out is non-nil
func (a *testAPI) do(t *testing.T, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return w
}

// newCart opens a cart holding lines
func (a *testAPI) newCart(t *testing.T, lines ...[2]int64) string {
	t.Helper()

	var created struct {
		ID string `json:"id"`
	}
	if w := a.do(t, http.MethodPost, "/api/carts", nil, &created); w.Code != http.StatusCreated {
		t.Fatalf("create cart status = %d", w.Code)
	}
	for _, l := range lines {
		body := map[string]int64{"itemId": l[0], "delta": l[1]}
		if w := a.do(t, http.MethodPatch, "/api/carts/"+created.ID, body, nil); w.Code != http.StatusOK {
			t.Fatalf("adjust cart status = %d: %s", w.Code, w.Body.String())
		}
	}
	return created.ID
}
