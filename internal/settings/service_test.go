package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salepoint/salepoint/internal/shared"
)

type mockRepository struct {
	stored *BusinessSettings
}

func (m *mockRepository) Get(ctx context.Context) (BusinessSettings, error) {
	if m.stored == nil {
		return BusinessSettings{}, shared.ErrNotFound
	}
	return *m.stored, nil
}

func (m *mockRepository) Upsert(ctx context.Context, s BusinessSettings) (BusinessSettings, error) {
	s.ID = 1
	s.UpdatedAt = time.Now().UTC()
	m.stored = &s
	return s, nil
}

func strPtr(s string) *string { return &s }

func TestGetFallsBackToDefaults(t *testing.T) {
	svc := NewService(&mockRepository{}, nil, "SalePoint Store", "NGN")

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SalePoint Store", settings.BusinessName)
	assert.Equal(t, "NGN", settings.Currency)
	assert.Zero(t, settings.ID, "defaults are not persisted")
}

func TestGetPrefersStoredProfile(t *testing.T) {
	repo := &mockRepository{stored: &BusinessSettings{
		ID: 1, BusinessName: "Mama Nkechi Provisions", Currency: "NGN",
	}}
	svc := NewService(repo, nil, "SalePoint Store", "NGN")

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mama Nkechi Provisions", settings.BusinessName)
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	repo := &mockRepository{stored: &BusinessSettings{
		ID:           1,
		BusinessName: "Mama Nkechi Provisions",
		Address:      "12 Allen Avenue",
		Currency:     "NGN",
	}}
	svc := NewService(repo, nil, "SalePoint Store", "NGN")

	updated, err := svc.Update(context.Background(), UpdateSettingsRequest{
		Phone:         strPtr("+2348012345678"),
		ReceiptFooter: strPtr("Thank you for your patronage"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Mama Nkechi Provisions", updated.BusinessName)
	assert.Equal(t, "12 Allen Avenue", updated.Address)
	assert.Equal(t, "+2348012345678", updated.Phone)
	assert.Equal(t, "Thank you for your patronage", updated.ReceiptFooter)
}

func TestUpdateBeforeFirstSaveStartsFromDefaults(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, nil, "SalePoint Store", "NGN")

	updated, err := svc.Update(context.Background(), UpdateSettingsRequest{
		Address: strPtr("3 Broad Street"),
	})
	require.NoError(t, err)

	assert.Equal(t, "SalePoint Store", updated.BusinessName)
	assert.Equal(t, "NGN", updated.Currency)
	assert.Equal(t, "3 Broad Street", updated.Address)
	require.NotNil(t, repo.stored, "first update persists the profile row")
}

func TestBusinessNameFeedsReceipts(t *testing.T) {
	repo := &mockRepository{stored: &BusinessSettings{ID: 1, BusinessName: "Corner Shop", Currency: "NGN"}}
	svc := NewService(repo, nil, "SalePoint Store", "NGN")

	name, err := svc.BusinessName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", name)
}
