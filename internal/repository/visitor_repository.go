package repository

import (
	"context"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/report-tracker/internal/domain"
)

const visitorCountriesKey = "visitors:countries"

// VisitorRepository keeps per-country visit counters.
type VisitorRepository interface {
	Increment(ctx context.Context, country string) error
	List(ctx context.Context) ([]domain.VisitorCountry, error)
}

type visitorRepository struct {
	client *redis.Client
}

// NewVisitorRepository returns a Redis hash backed implementation.
func NewVisitorRepository(client *redis.Client) VisitorRepository {
	return &visitorRepository{client: client}
}

func (r *visitorRepository) Increment(ctx context.Context, country string) error {
	return r.client.HIncrBy(ctx, visitorCountriesKey, country, 1).Err()
}

func (r *visitorRepository) List(ctx context.Context) ([]domain.VisitorCountry, error) {
	raw, err := r.client.HGetAll(ctx, visitorCountriesKey).Result()
	if err != nil {
		return nil, err
	}
	result := make([]domain.VisitorCountry, 0, len(raw))
	for country, value := range raw {
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		result = append(result, domain.VisitorCountry{Country: country, Count: count})
	}
	SortVisitorCountries(result)
	return result, nil
}

// SortVisitorCountries orders by count descending, then by name.
func SortVisitorCountries(countries []domain.VisitorCountry) {
	sort.Slice(countries, func(i, j int) bool {
		if countries[i].Count != countries[j].Count {
			return countries[i].Count > countries[j].Count
		}
		return countries[i].Country < countries[j].Country
	})
}
