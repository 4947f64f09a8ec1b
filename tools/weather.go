package tools

import (
	"context"
	"fmt"
	"io"
	"llm_steps/model"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const (
	WeatherToolName   = "getWeatherDetailsByCity"
	weatherCacheSize  = 128
	maxWeatherBodyLen = 64 << 10
)

var weatherTool = openai.FunctionDefinition{
	Name: WeatherToolName,
	Description: `
Returns the current weather data of the city.
`,
	Parameters: jsonschema.Definition{
		Type:                 jsonschema.Object,
		AdditionalProperties: false,
		Properties: map[string]jsonschema.Definition{
			"cityname": {
				Type:        jsonschema.String,
				Description: "the name of the city",
			},
		},
		Required: []string{"cityname"},
	},
}

type WeatherTool struct {
	baseURL string
	client  *http.Client
	cache   *expirable.LRU[string, string]
}

// NewWeatherTool queries a wttr.in compatible endpoint. Answers are cached
// per city for ttl; ttl <= 0 disables the cache.
func NewWeatherTool(baseURL string, ttl time.Duration, client *http.Client) *WeatherTool {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	tool := &WeatherTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
	if ttl > 0 {
		tool.cache = expirable.NewLRU[string, string](weatherCacheSize, nil, ttl)
	}
	return tool
}

func (w *WeatherTool) Lookup(ctx context.Context, city string) (string, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return "", fmt.Errorf("city name is empty")
	}
	if w.cache != nil {
		if cached, ok := w.cache.Get(city); ok {
			return cached, nil
		}
	}
	reqURL := fmt.Sprintf("%s/%s?format=%%C+%%t", w.baseURL, url.PathEscape(city))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWeatherBodyLen))
	if err != nil {
		return "", err
	}
	data := string(body)
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("city", city).Msg("weather endpoint returned non-200")
		return data, nil
	}
	if w.cache != nil {
		w.cache.Add(city, data)
	}
	return data, nil
}

func (w *WeatherTool) ToolDef() model.ToolDef {
	handler := func(ctx context.Context, input string) (string, error) {
		data, err := w.Lookup(ctx, input)
		if err != nil {
			return fmt.Sprintf("Error fetching weather: %s", err), nil
		}
		return data, nil
	}
	return model.ToolDef{FunctionDefinition: weatherTool, Handler: handler}
}
