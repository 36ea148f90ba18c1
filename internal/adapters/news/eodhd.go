package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/stock-insight/pkg/logger"
	"github.com/selivandex/stock-insight/pkg/models"
)

// EODHDClient fetches news from the EODHD financial news API
type EODHDClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewEODHDClient creates new EODHD news client
func NewEODHDClient(baseURL, token string, timeout time.Duration) *EODHDClient {
	return &EODHDClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch returns the articles published for the symbol on the given date.
// Articles are returned in API order with fields passed through untouched;
// completeness policy belongs to the caller.
func (c *EODHDClient) Fetch(ctx context.Context, symbol string, date time.Time) ([]models.Article, error) {
	day := date.Format("2006-01-02")

	query := url.Values{}
	query.Set("s", symbol)
	query.Set("offset", "0")
	query.Set("api_token", c.token)
	query.Set("fmt", "json")
	query.Set("from", day)
	query.Set("to", day)

	endpoint := fmt.Sprintf("%s/api/news?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &GatewayError{Symbol: symbol, Date: date, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Symbol: symbol, Date: date, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &GatewayError{
			Symbol: symbol,
			Date:   date,
			Err:    fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result []struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Link    string   `json:"link"`
		Symbols []string `json:"symbols"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &GatewayError{Symbol: symbol, Date: date, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	articles := make([]models.Article, 0, len(result))
	for _, item := range result {
		articles = append(articles, models.Article{
			Title:   item.Title,
			Content: item.Content,
			Link:    item.Link,
			Symbols: item.Symbols,
		})
	}

	logger.Debug("fetched news",
		zap.String("symbol", symbol),
		zap.String("date", day),
		zap.Int("articles", len(articles)),
	)

	return articles, nil
}
