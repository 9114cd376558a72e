package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andesbank/accountms/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, rdb *redis.Client) *CustomerClient {
	return &CustomerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 2 * time.Second},
		redis:      rdb,
		cacheTTL:   time.Minute,
	}
}

func TestFetchCustomer(t *testing.T) {
	customer := models.Customer{ID: 7, FirstName: "Ana", LastName: "Quispe", Document: "45879632", Email: "ana.quispe@example.com"}

	t.Run("returns the customer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/customers/7", r.URL.Path)
			json.NewEncoder(w).Encode(customerEnvelope{Status: 200, Message: "OK", Data: &customer})
		}))
		defer server.Close()

		client := newTestClient(server.URL, nil)
		got, err := client.FetchCustomer(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, customer, *got)
	})

	t.Run("404 means the customer does not exist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(server.URL, nil)
		_, err := client.FetchCustomer(context.Background(), 99)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("server errors are lookup failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(server.URL, nil)
		_, err := client.FetchCustomer(context.Background(), 7)
		assert.ErrorIs(t, err, ErrCustomerLookupFailed)
	})

	t.Run("unreachable service is a lookup failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := newTestClient(server.URL, nil)
		_, err := client.FetchCustomer(context.Background(), 7)
		assert.ErrorIs(t, err, ErrCustomerLookupFailed)
	})

	t.Run("empty payload means not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(customerEnvelope{Status: 200, Message: "OK", Data: nil})
		}))
		defer server.Close()

		client := newTestClient(server.URL, nil)
		_, err := client.FetchCustomer(context.Background(), 7)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("cache hit skips the customer service", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		data, err := json.Marshal(customer)
		require.NoError(t, err)
		redisMock.ExpectGet("customer:7").SetVal(string(data))

		// No server behind this URL; a hit must not reach it.
		client := newTestClient("http://127.0.0.1:1", rdb)
		got, err := client.FetchCustomer(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, customer, *got)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss stores the customer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(customerEnvelope{Status: 200, Message: "OK", Data: &customer})
		}))
		defer server.Close()

		data, err := json.Marshal(&customer)
		require.NoError(t, err)

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet("customer:7").RedisNil()
		redisMock.ExpectSet("customer:7", data, time.Minute).SetVal("OK")

		client := newTestClient(server.URL, rdb)
		got, err := client.FetchCustomer(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, customer, *got)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}
