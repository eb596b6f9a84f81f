//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ryan-Dante/stock-price-checker/config"
	"github.com/Ryan-Dante/stock-price-checker/internal/app"
)

func startPG(t *testing.T) (host string, port nat.Port, terminate func()) {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "stockchecker",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=stockchecker sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	terminate = func() { _ = c.Terminate(context.Background()) }
	return h, mp, terminate
}

func migrate(t *testing.T, host string, port nat.Port) {
	t.Helper()
	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/stockchecker?sslmode=disable", host, port.Port())
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

// stubQuoteProxy mimics the upstream quote source, serving fixed prices and
// an optionally broken body per symbol.
func stubQuoteProxy(prices map[string]float64, broken map[string]bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/stock/"), "/quote")
		if broken[symbol] {
			_, _ = w.Write([]byte(`{"latestPrice":`))
			return
		}
		price, ok := prices[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprintf(w, `{"symbol":%q,"latestPrice":%v}`, symbol, price)
	}))
}

func TestAPI_E2E_StockPrices(t *testing.T) {
	host, port, term := startPG(t)
	defer term()
	migrate(t, host, port)

	proxy := stubQuoteProxy(map[string]float64{"goog": 172.34, "msft": 410.10}, map[string]bool{"fail": true})
	defer proxy.Close()

	// Point application config to containerized DB and stub proxy
	config.AppConfig.Postgres.Host = host
	p, _ := nat.ParsePort(port.Port())
	config.AppConfig.Postgres.Port = int(p)
	config.AppConfig.Postgres.User = "postgres"
	config.AppConfig.Postgres.Password = "postgres"
	config.AppConfig.Postgres.DBName = "stockchecker"
	config.AppConfig.Postgres.SSLMode = "disable"
	config.AppConfig.Quote.BaseURL = proxy.URL
	config.AppConfig.Quote.Timeout = 5 * time.Second
	config.AppConfig.Identity.BcryptCost = bcrypt.MinCost

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	get := func(t *testing.T, path string) (int, []byte) {
		t.Helper()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code, w.Body.Bytes()
	}

	t.Run("single stock", func(t *testing.T) {
		code, body := get(t, "/api/stock-prices?stock=goog")
		if code != http.StatusOK {
			t.Fatalf("status=%d body=%s", code, body)
		}
		var out struct {
			StockData struct {
				Stock string  `json:"stock"`
				Price float64 `json:"price"`
				Likes int64   `json:"likes"`
			} `json:"stockData"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.StockData.Stock != "goog" || out.StockData.Price != 172.34 || out.StockData.Likes != 0 {
			t.Fatalf("unexpected body: %+v", out.StockData)
		}
	})

	t.Run("like is not double counted", func(t *testing.T) {
		// httptest requests share a RemoteAddr, i.e. the same caller identity.
		for i := 0; i < 2; i++ {
			code, body := get(t, "/api/stock-prices?stock=goog&like=true")
			if code != http.StatusOK {
				t.Fatalf("call %d: status=%d body=%s", i+1, code, body)
			}
			var out struct {
				StockData struct {
					Likes int64 `json:"likes"`
				} `json:"stockData"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				t.Fatalf("json: %v", err)
			}
			if out.StockData.Likes != 1 {
				t.Fatalf("call %d: likes=%d, want 1", i+1, out.StockData.Likes)
			}
		}
	})

	t.Run("two stocks with like", func(t *testing.T) {
		code, body := get(t, "/api/stock-prices?stock=goog&stock=msft&like=true")
		if code != http.StatusOK {
			t.Fatalf("status=%d body=%s", code, body)
		}
		var out struct {
			StockData []struct {
				Stock    string  `json:"stock"`
				Price    float64 `json:"price"`
				RelLikes *int64  `json:"rel_likes"`
			} `json:"stockData"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if len(out.StockData) != 2 {
			t.Fatalf("expected 2 entries: %s", body)
		}
		if out.StockData[0].Stock != "goog" || out.StockData[1].Stock != "msft" {
			t.Fatalf("order not preserved: %s", body)
		}
		if out.StockData[0].RelLikes == nil || out.StockData[1].RelLikes == nil {
			t.Fatalf("rel_likes missing: %s", body)
		}
		if *out.StockData[0].RelLikes+*out.StockData[1].RelLikes != 0 {
			t.Fatalf("rel_likes must sum to zero: %s", body)
		}
	})

	t.Run("broken upstream fails whole request", func(t *testing.T) {
		code, body := get(t, "/api/stock-prices?stock=goog&stock=fail")
		if code != http.StatusInternalServerError {
			t.Fatalf("status=%d body=%s", code, body)
		}
		var out map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out["error"] != "error fetching stock price data" {
			t.Fatalf("unexpected error payload: %s", body)
		}
		if _, ok := out["stockData"]; ok {
			t.Fatalf("partial results leaked: %s", body)
		}
	})
}
