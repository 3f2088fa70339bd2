package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
)

var ErrPostcodeNotFound = errors.New("postcode not found")

// PostcodesIOClient looks postcodes up against a postcodes.io compatible API.
type PostcodesIOClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPostcodesIOClient(baseURL string, timeout time.Duration) *PostcodesIOClient {
	return &PostcodesIOClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type postcodeResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Result *struct {
		Postcode  string  `json:"postcode"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"result"`
}

func (c *PostcodesIOClient) Lookup(ctx context.Context, postcode string) (Coordinates, error) {
	logger.ExternalServiceCall("postcodes.io", "lookup", "postcode", postcode)

	endpoint := fmt.Sprintf("%s/postcodes/%s", c.baseURL, url.PathEscape(postcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrDistanceLookup, err)
		logger.ExternalServiceResult("postcodes.io", "lookup", err)
		return Coordinates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logger.ExternalServiceResult("postcodes.io", "lookup", ErrPostcodeNotFound, "postcode", postcode)
		return Coordinates{}, ErrPostcodeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: status %d", domain.ErrDistanceLookup, resp.StatusCode)
		logger.ExternalServiceResult("postcodes.io", "lookup", err)
		return Coordinates{}, err
	}

	var body postcodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, fmt.Errorf("%w: decode response: %v", domain.ErrDistanceLookup, err)
	}
	if body.Result == nil {
		return Coordinates{}, ErrPostcodeNotFound
	}

	logger.ExternalServiceResult("postcodes.io", "lookup", nil, "postcode", body.Result.Postcode)
	return Coordinates{Latitude: body.Result.Latitude, Longitude: body.Result.Longitude}, nil
}
