package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/andesbank/accountms/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// Owner-validation failures. ErrCustomerNotFound means the customer service
// answered authoritatively that the customer does not exist;
// ErrCustomerLookupFailed means it could not answer at all.
var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrCustomerLookupFailed = errors.New("customer lookup failed")
)

// CustomerClient resolves account owners against the customer microservice.
// Positive answers are cached in Redis when available; the client works
// without Redis.
type CustomerClient struct {
	baseURL    string
	httpClient *http.Client
	redis      *redis.Client
	cacheTTL   time.Duration
}

func NewCustomerClient(rdb *redis.Client) *CustomerClient {
	viper.SetDefault("customer.base_url", "http://localhost:8081")
	viper.SetDefault("customer.timeout", 5*time.Second)
	viper.SetDefault("customer.cache_ttl", 5*time.Minute)

	return &CustomerClient{
		baseURL: viper.GetString("customer.base_url"),
		httpClient: &http.Client{
			Timeout: viper.GetDuration("customer.timeout"),
		},
		redis:    rdb,
		cacheTTL: viper.GetDuration("customer.cache_ttl"),
	}
}

// customerEnvelope is the customer service's response wrapper.
type customerEnvelope struct {
	Status  int              `json:"status"`
	Message string           `json:"message"`
	Data    *models.Customer `json:"data"`
}

// FetchCustomer returns the customer or ErrCustomerNotFound. Transport
// errors, timeouts and unexpected statuses map to ErrCustomerLookupFailed.
func (c *CustomerClient) FetchCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	cacheKey := fmt.Sprintf("customer:%d", id)
	if c.redis != nil {
		if data, err := c.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var customer models.Customer
			if err := json.Unmarshal(data, &customer); err == nil {
				return &customer, nil
			}
		}
	}

	url := fmt.Sprintf("%s/customers/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCustomerLookupFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[CUSTOMER] lookup for customer %d failed: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrCustomerLookupFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, id)
	case resp.StatusCode != http.StatusOK:
		log.Printf("[CUSTOMER] customer service returned status %d for customer %d", resp.StatusCode, id)
		return nil, fmt.Errorf("%w: customer service returned status %d", ErrCustomerLookupFailed, resp.StatusCode)
	}

	var envelope customerEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCustomerLookupFailed, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, id)
	}

	if c.redis != nil {
		if data, err := json.Marshal(envelope.Data); err == nil {
			if err := c.redis.Set(ctx, cacheKey, data, c.cacheTTL).Err(); err != nil {
				log.Printf("[CUSTOMER] failed to cache customer %d: %v", id, err)
			}
		}
	}

	return envelope.Data, nil
}
