package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/protectedareas/wdpa-server/internal/aggregate"
	"github.com/protectedareas/wdpa-server/internal/countries"
	"github.com/protectedareas/wdpa-server/internal/dataset"
	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
	"github.com/protectedareas/wdpa-server/internal/metrics"
	"github.com/protectedareas/wdpa-server/internal/validation"
)

// DefaultMaxCountries bounds how many countries one selection may compare.
const DefaultMaxCountries = 3

// namer is implemented by reference tables that can map a code back to a display name.
type namer interface {
	Name(code string) string
}

// DatasetInfo describes the loaded dataset snapshot.
type DatasetInfo struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Format     string    `json:"format"`
	AreaColumn string    `json:"area_column"`
	Records    int       `json:"records"`
	Countries  int       `json:"countries"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// BreakdownService answers breakdown queries over the loaded dataset.
// Every query recomputes from the immutable records; nothing is cached between queries.
type BreakdownService struct {
	dataset      *dataset.Dataset
	resolver     countries.Resolver
	validator    *validation.Validator
	maxCountries int
	logger       *slog.Logger
}

// NewBreakdownService creates a breakdown service. maxCountries <= 0 uses DefaultMaxCountries.
func NewBreakdownService(
	ds *dataset.Dataset,
	resolver countries.Resolver,
	maxCountries int,
	logger *slog.Logger,
) *BreakdownService {
	if maxCountries <= 0 {
		maxCountries = DefaultMaxCountries
	}
	return &BreakdownService{
		dataset:      ds,
		resolver:     resolver,
		validator:    validation.New(),
		maxCountries: maxCountries,
		logger:       logger,
	}
}

// MaxCountries returns the selection bound.
func (s *BreakdownService) MaxCountries() int {
	return s.maxCountries
}

// DatasetInfo returns metadata about the loaded dataset.
func (s *BreakdownService) DatasetInfo() DatasetInfo {
	return DatasetInfo{
		ID:         s.dataset.ID,
		Source:     s.dataset.Source,
		Format:     string(s.dataset.Format),
		AreaColumn: s.dataset.AreaColumn,
		Records:    s.dataset.Len(),
		Countries:  s.dataset.CountryCount(),
		LoadedAt:   s.dataset.LoadedAt,
	}
}

// Compute runs the full pipeline over the dataset.
func (s *BreakdownService) Compute(ctx context.Context) (*domain.Breakdowns, error) {
	start := time.Now()

	b, err := aggregate.ComputeBreakdowns(ctx, s.dataset.Records())
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.BreakdownComputeDurationMs.Observe(float64(elapsed.Microseconds()) / 1000)
	s.logger.Debug("computed breakdowns",
		"dataset", s.dataset.ID,
		"records", s.dataset.Len(),
		"countries", len(b.Totals),
		"duration", elapsed,
	)
	return b, nil
}

// Table returns the full breakdown table for one dimension.
func (s *BreakdownService) Table(ctx context.Context, dimension string) (domain.Breakdown, error) {
	dim, ok := domain.ParseDimension(dimension)
	if !ok {
		return domain.Breakdown{}, errors.NotFoundf("unknown dimension %q", dimension)
	}

	b, err := s.Compute(ctx)
	if err != nil {
		return domain.Breakdown{}, err
	}
	return b.Table(dim), nil
}

// ForCode returns the breakdown for one ISO3 code or shared key ("FRA;ITA"). A well-formed
// code with no records yields empty rows, not an error.
func (s *BreakdownService) ForCode(ctx context.Context, code string) (domain.CountryBreakdown, error) {
	code = domain.CanonicalCountryKey(code)
	if err := s.validator.Var("code", code, "required,iso3key"); err != nil {
		return domain.CountryBreakdown{}, err
	}

	b, err := s.Compute(ctx)
	if err != nil {
		return domain.CountryBreakdown{}, err
	}
	return s.lookup(b, code), nil
}

// Select resolves up to MaxCountries display names or codes and returns their breakdowns
// in selection order.
func (s *BreakdownService) Select(ctx context.Context, selectors []string) ([]domain.CountryBreakdown, error) {
	codes, err := s.ResolveSelectors(selectors)
	if err != nil {
		return nil, err
	}

	b, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(codes, func(code string, _ int) domain.CountryBreakdown {
		return s.lookup(b, code)
	}), nil
}

// ResolveSelectors maps display names or raw ISO3 codes to codes. Each selector may be a
// comma-separated list. Duplicates collapse to their first occurrence. An unknown display
// name is a validation error.
func (s *BreakdownService) ResolveSelectors(selectors []string) ([]string, error) {
	trimmed := lo.FilterMap(selectors, func(sel string, _ int) (string, bool) {
		sel = strings.TrimSpace(sel)
		return sel, sel != ""
	})
	if err := s.validator.Var("countries", trimmed, "required,min=1"); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(trimmed))
	var unknown []string
	for _, sel := range trimmed {
		for _, part := range s.splitSelector(sel) {
			if code, ok := s.resolve(part); ok {
				codes = append(codes, code)
			} else {
				unknown = append(unknown, part)
			}
		}
	}
	if len(unknown) > 0 {
		return nil, errors.ValidationWithDetails(
			fmt.Sprintf("unknown country %q", unknown[0]),
			map[string][]string{"unknown": unknown},
		)
	}

	codes = lo.Uniq(codes)
	if err := s.validator.Var("countries", codes, fmt.Sprintf("required,min=1,max=%d", s.maxCountries)); err != nil {
		return nil, err
	}
	return codes, nil
}

// resolve maps one display name or code key to a code.
func (s *BreakdownService) resolve(sel string) (string, bool) {
	sel = strings.TrimSpace(sel)
	if code, ok := s.resolver.Lookup(sel); ok {
		return code, true
	}
	if countries.LooksLikeCodeKey(sel) {
		return domain.CanonicalCountryKey(sel), true
	}
	return "", false
}

// splitSelector splits a comma-separated selector list. Reference names may contain
// commas themselves ("Tanzania, United Republic of"), so the longest run of pieces
// that resolves as one selector is taken first.
func (s *BreakdownService) splitSelector(sel string) []string {
	if _, ok := s.resolve(sel); ok || !strings.Contains(sel, ",") {
		return []string{sel}
	}

	pieces := strings.Split(sel, ",")
	var out []string
	for i := 0; i < len(pieces); {
		j := len(pieces)
		for ; j > i+1; j-- {
			if _, ok := s.resolve(strings.Join(pieces[i:j], ",")); ok {
				break
			}
		}
		if part := strings.TrimSpace(strings.Join(pieces[i:j], ",")); part != "" {
			out = append(out, part)
		}
		i = j
	}
	return out
}

func (s *BreakdownService) lookup(b *domain.Breakdowns, code string) domain.CountryBreakdown {
	out := aggregate.Lookup(b, code)
	if n, ok := s.resolver.(namer); ok {
		out.CountryName = n.Name(code)
	}

	outcome := "found"
	if !out.Known {
		outcome = "empty"
	}
	metrics.CountryLookupsTotal.WithLabelValues(outcome).Inc()

	return out
}
