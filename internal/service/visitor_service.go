package service

import (
	"context"

	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/repository"
)

// CountryResolver maps an IP address to a country name.
type CountryResolver interface {
	Country(ctx context.Context, ip string) string
}

// VisitorService counts visits per country.
type VisitorService struct {
	resolver CountryResolver
	visitors repository.VisitorRepository
}

// NewVisitorService constructs the service.
func NewVisitorService(resolver CountryResolver, visitors repository.VisitorRepository) *VisitorService {
	return &VisitorService{resolver: resolver, visitors: visitors}
}

// LogVisit resolves the caller's country and increments its counter.
func (s *VisitorService) LogVisit(ctx context.Context, ip string) (string, error) {
	country := s.resolver.Country(ctx, ip)
	if country == "" {
		country = domain.UnknownCountry
	}
	if err := s.visitors.Increment(ctx, country); err != nil {
		return "", err
	}
	return country, nil
}

// Countries lists visit counts, highest first.
func (s *VisitorService) Countries(ctx context.Context) ([]domain.VisitorCountry, error) {
	return s.visitors.List(ctx)
}
