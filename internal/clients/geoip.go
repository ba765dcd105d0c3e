package clients

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// GeoIPClient resolves an IP address to a country name through an ipapi.co compatible endpoint.
type GeoIPClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewGeoIPClient builds a client against baseURL (for example https://ipapi.co).
func NewGeoIPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *GeoIPClient {
	return &GeoIPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Country never fails: invalid addresses and lookup errors resolve to domain.UnknownCountry.
func (c *GeoIPClient) Country(ctx context.Context, ip string) string {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return domain.UnknownCountry
	}

	endpoint := c.baseURL + "/" + url.PathEscape(parsed.String()) + "/json/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.UnknownCountry
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("geoip lookup failed", zap.Error(err))
		return domain.UnknownCountry
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("geoip lookup failed", zap.Int("status", resp.StatusCode))
		return domain.UnknownCountry
	}

	var body struct {
		CountryName string `json:"country_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || strings.TrimSpace(body.CountryName) == "" {
		return domain.UnknownCountry
	}
	return body.CountryName
}
