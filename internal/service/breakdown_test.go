package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protectedareas/wdpa-server/internal/countries"
	"github.com/protectedareas/wdpa-server/internal/dataset"
	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecords() []domain.AreaRecord {
	return []domain.AreaRecord{
		{CountryCode: "KEN", AreaSqKm: 150, Status: "Designated", OwnerType: "State", IUCNCategory: "II"},
		{CountryCode: "KEN", AreaSqKm: 50, Status: "Proposed", OwnerType: "", IUCNCategory: "Not Reported"},
		{CountryCode: "PER", AreaSqKm: 400, Status: "Designated", OwnerType: "State", IUCNCategory: "II"},
		{CountryCode: "CIV", AreaSqKm: 0, Status: "Designated"},
	}
}

func testTable(t *testing.T) *countries.Table {
	t.Helper()
	table, err := countries.NewTable([]domain.Country{
		{Name: "Kenya", Alpha2: "KE", ISO3: "KEN"},
		{Name: "Peru", Alpha2: "PE", ISO3: "PER"},
		{Name: "Côte d'Ivoire", Alpha2: "CI", ISO3: "CIV"},
		{Name: "Norway", Alpha2: "NO", ISO3: "NOR"},
		{Name: "Brazil", Alpha2: "BR", ISO3: "BRA"},
	})
	require.NoError(t, err)
	return table
}

func setupBreakdownService(t *testing.T) *BreakdownService {
	t.Helper()

	ds, err := dataset.New(testRecords(), "memory", dataset.FormatMemory, dataset.DefaultAreaColumn)
	require.NoError(t, err)

	return NewBreakdownService(ds, testTable(t), 0, testLogger())
}

// mapResolver is a Resolver without a reverse name mapping.
type mapResolver map[string]string

func (m mapResolver) Lookup(name string) (string, bool) {
	code, ok := m[name]
	return code, ok
}

func TestBreakdownService_DatasetInfo(t *testing.T) {
	svc := setupBreakdownService(t)

	info := svc.DatasetInfo()
	assert.Equal(t, 4, info.Records)
	assert.Equal(t, 3, info.Countries)
	assert.Equal(t, "memory", info.Format)
	assert.Equal(t, DefaultMaxCountries, svc.MaxCountries())
}

func TestBreakdownService_Table(t *testing.T) {
	svc := setupBreakdownService(t)
	ctx := context.Background()

	table, err := svc.Table(ctx, "status")
	require.NoError(t, err)
	assert.Equal(t, domain.DimensionStatus, table.Dimension)
	assert.Len(t, table.Rows, 4)

	_, err = svc.Table(ctx, "designation")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestBreakdownService_ForCode(t *testing.T) {
	svc := setupBreakdownService(t)
	ctx := context.Background()

	got, err := svc.ForCode(ctx, " ken ")
	require.NoError(t, err)
	assert.Equal(t, "KEN", got.CountryCode)
	assert.Equal(t, "Kenya", got.CountryName)
	assert.True(t, got.Known)
	assert.InDelta(t, 75.0, got.Rows(domain.DimensionStatus)[0].Percent.Value, 1e-9)

	owners := got.Rows(domain.DimensionOwnerType)
	require.Len(t, owners, 2)
	assert.Equal(t, domain.NotReported, owners[0].Category)
}

func TestBreakdownService_ForCode_Unknown(t *testing.T) {
	svc := setupBreakdownService(t)

	got, err := svc.ForCode(context.Background(), "NOR")
	require.NoError(t, err)
	assert.False(t, got.Known)
	assert.True(t, got.IsEmpty())
	assert.Equal(t, "Norway", got.CountryName)
}

func TestBreakdownService_ForCode_ZeroArea(t *testing.T) {
	svc := setupBreakdownService(t)

	got, err := svc.ForCode(context.Background(), "CIV")
	require.NoError(t, err)
	assert.True(t, got.Known)
	require.Len(t, got.Rows(domain.DimensionStatus), 1)
	assert.False(t, got.Rows(domain.DimensionStatus)[0].Percent.Defined)
}

func TestBreakdownService_ForCode_Invalid(t *testing.T) {
	svc := setupBreakdownService(t)

	for _, code := range []string{"", "KE", "K3N", "Kenya", "FRA;", "FRA;IT"} {
		_, err := svc.ForCode(context.Background(), code)
		assert.True(t, errors.Is(err, errors.ErrValidation), code)
	}
}

func TestBreakdownService_Select(t *testing.T) {
	svc := setupBreakdownService(t)

	got, err := svc.Select(context.Background(), []string{"peru", "cote d'ivoire", "NOR"})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "PER", got[0].CountryCode)
	assert.Equal(t, "CIV", got[1].CountryCode)
	assert.Equal(t, "NOR", got[2].CountryCode)
	assert.True(t, got[2].IsEmpty())
}

func TestBreakdownService_ResolveSelectors(t *testing.T) {
	svc := setupBreakdownService(t)

	tests := []struct {
		name      string
		selectors []string
		want      []string
		wantErr   bool
	}{
		{"names", []string{"Kenya", "Peru"}, []string{"KEN", "PER"}, false},
		{"lowercase code and four letter code", []string{"ken", "ABNJ"}, nil, true},
		{"raw unknown code", []string{"XKX"}, []string{"XKX"}, false},
		{"duplicates collapse", []string{"Kenya", "KEN", " kenya ", "Peru", "Brazil"}, []string{"KEN", "PER", "BRA"}, false},
		{"blank entries dropped", []string{"", "Peru", "  "}, []string{"PER"}, false},
		{"none", []string{" "}, nil, true},
		{"too many", []string{"Kenya", "Peru", "Brazil", "Norway"}, nil, true},
		{"unknown name", []string{"Kenya", "Atlantis"}, nil, true},
		{"comma list", []string{"Peru, KEN,norway"}, []string{"PER", "KEN", "NOR"}, false},
		{"comma list with unknown", []string{"Kenya,Atlantis"}, nil, true},
		{"empty comma list", []string{" , "}, nil, true},
		{"shared key", []string{"fra; ita"}, []string{"FRA;ITA"}, false},
		{"malformed shared key", []string{"FRA;Italy"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveSelectors(tt.selectors)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBreakdownService_NameWithComma(t *testing.T) {
	ds, err := dataset.New(testRecords(), "memory", dataset.FormatMemory, dataset.DefaultAreaColumn)
	require.NoError(t, err)

	table, err := countries.NewTable([]domain.Country{
		{Name: "Kenya", Alpha2: "KE", ISO3: "KEN"},
		{Name: "Palestine, State of", Alpha2: "PS", ISO3: "PSE"},
		{Name: "Virgin Islands, U.S.", Alpha2: "VI", ISO3: "VIR"},
	})
	require.NoError(t, err)
	svc := NewBreakdownService(ds, table, 0, testLogger())

	got, err := svc.ResolveSelectors([]string{"Palestine, State of"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PSE"}, got)

	got, err = svc.ResolveSelectors([]string{"Virgin Islands, U.S.,Kenya,Palestine, State of"})
	require.NoError(t, err)
	assert.Equal(t, []string{"VIR", "KEN", "PSE"}, got)

	_, err = svc.ResolveSelectors([]string{"Palestine, Atlantis"})
	require.Error(t, err)
	var derr *errors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, map[string][]string{"unknown": {"Palestine", "Atlantis"}}, derr.Details)
}

func TestBreakdownService_SharedCountryKey(t *testing.T) {
	records := append(testRecords(),
		domain.AreaRecord{CountryCode: "FRA;ITA", AreaSqKm: 30, Status: "Designated"},
		domain.AreaRecord{CountryCode: "FRA", AreaSqKm: 10, Status: "Designated"},
	)
	ds, err := dataset.New(records, "memory", dataset.FormatMemory, dataset.DefaultAreaColumn)
	require.NoError(t, err)
	svc := NewBreakdownService(ds, testTable(t), 0, testLogger())

	shared, err := svc.ForCode(context.Background(), "fra; ita")
	require.NoError(t, err)
	assert.Equal(t, "FRA;ITA", shared.CountryCode)
	assert.True(t, shared.Known)
	assert.InDelta(t, 30.0, shared.TotalSqKm, 1e-9)

	got, err := svc.Select(context.Background(), []string{"FRA;ITA", "FRA"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 30.0, got[0].TotalSqKm, 1e-9)
	assert.InDelta(t, 10.0, got[1].TotalSqKm, 1e-9)
}

func TestBreakdownService_CustomResolver(t *testing.T) {
	ds, err := dataset.New(testRecords(), "memory", dataset.FormatMemory, dataset.DefaultAreaColumn)
	require.NoError(t, err)

	svc := NewBreakdownService(ds, mapResolver{"Republic of Kenya": "KEN"}, 1, testLogger())

	got, err := svc.Select(context.Background(), []string{"Republic of Kenya"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KEN", got[0].CountryCode)
	assert.Empty(t, got[0].CountryName)

	_, err = svc.Select(context.Background(), []string{"KEN", "PER"})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
