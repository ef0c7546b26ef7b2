package app

import (
	"context"
	"errors"
	"testing"

	"seedrand/adapters/random"
	"seedrand/domain/core"
	"seedrand/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRandom mocks the draws a test needs; any other method panics via the
// nil embedded interface.
type MockRandom struct {
	ports.Random
	mock.Mock
}

func (m *MockRandom) NextDouble() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRandom) Fork() (ports.Random, error) {
	args := m.Called()
	r, _ := args.Get(0).(ports.Random)
	return r, args.Error(1)
}

func newService() *StreamService {
	return NewStreamService(random.Factory(random.EngineStandard), nil)
}

func firstDraws(t *testing.T, r ports.Random, n int) []float64 {
	t.Helper()
	out := make([]float64, n)
	for i := range out {
		d, err := r.NextDouble()
		require.NoError(t, err)
		out[i] = d
	}
	return out
}

func TestStreamService_SeededStreamIsDeterministic(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	a, err := svc.SeededStream(ctx, "cohort_selection", 42)
	require.NoError(t, err)
	b, err := svc.SeededStream(ctx, "cohort_selection", 42)
	require.NoError(t, err)

	assert.Equal(t, firstDraws(t, a, 8), firstDraws(t, b, 8))
	assert.Equal(t, firstDraws(t, random.New(42), 8), firstDraws(t, mustStream(t, svc, 42), 8))
}

func mustStream(t *testing.T, svc *StreamService, seed int32) ports.Random {
	t.Helper()
	r, err := svc.SeededStream(context.Background(), "helper", seed)
	require.NoError(t, err)
	return r
}

func TestStreamService_StreamDerivesSeedFromNames(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	a, err := svc.Stream(ctx, "run-1", "pairwise", "x:y", 7)
	require.NoError(t, err)
	b, err := svc.Stream(ctx, "run-1", "pairwise", "x:y", 7)
	require.NoError(t, err)
	c, err := svc.Stream(ctx, "run-1", "pairwise", "x:z", 7)
	require.NoError(t, err)

	da := firstDraws(t, a, 4)
	assert.Equal(t, da, firstDraws(t, b, 4))
	assert.NotEqual(t, da, firstDraws(t, c, 4))

	issued := svc.Issued()
	require.Len(t, issued, 3)
	assert.Equal(t, "run-1/pairwise/x:y", issued[0].Name)
	assert.Equal(t, core.DeriveSeed(7, "run-1", "pairwise", "x:y"), issued[0].Seed)
	assert.NotEqual(t, issued[0].ID, issued[1].ID)
	_, err = uuid.Parse(issued[0].ID.String())
	assert.NoError(t, err)
}

func TestStreamService_StreamSkipsEmptyNames(t *testing.T) {
	svc := newService()
	_, err := svc.Stream(context.Background(), "", "stage", "", 3)
	require.NoError(t, err)
	assert.Equal(t, "stage", svc.Issued()[0].Name)
}

func TestStreamService_IssuedIsACopy(t *testing.T) {
	svc := newService()
	mustStream(t, svc, 1)

	issued := svc.Issued()
	issued[0].Seed = 99
	assert.Equal(t, int32(1), svc.Issued()[0].Seed)
}

func TestStreamService_LedgerKeepsLatestEntries(t *testing.T) {
	svc := NewStreamService(random.Factory(random.EngineStandard), nil, WithMaxIssued(3))
	for seed := int32(1); seed <= 7; seed++ {
		mustStream(t, svc, seed)
	}

	issued := svc.Issued()
	require.Len(t, issued, 3)
	assert.Equal(t, []int32{5, 6, 7}, []int32{issued[0].Seed, issued[1].Seed, issued[2].Seed})
}

func TestStreamService_LedgerUnboundedByDefault(t *testing.T) {
	svc := newService()
	for seed := int32(1); seed <= 50; seed++ {
		mustStream(t, svc, seed)
	}
	assert.Len(t, svc.Issued(), 50)
	assert.Equal(t, int32(1), svc.Issued()[0].Seed)
}

func TestStreamService_ValidateSeed(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	expected := firstDraws(t, random.New(42), 5)

	assert.NoError(t, svc.ValidateSeed(ctx, "permutation-test", 42, expected))
	assert.NoError(t, svc.ValidateSeed(ctx, "permutation-test", -42, expected))

	err := svc.ValidateSeed(ctx, "permutation-test", 43, expected)
	assert.ErrorIs(t, err, core.ErrSeedMismatch)
	assert.True(t, core.IsDeterminismError(err))
}

func TestStreamService_ValidateSeedPropagatesDrawErrors(t *testing.T) {
	boom := errors.New("boom")
	m := &MockRandom{}
	m.On("NextDouble").Return(0.0, boom).Once()

	svc := NewStreamService(func(int32) ports.Random { return m }, nil)
	err := svc.ValidateSeed(context.Background(), "x", 1, []float64{0.5})
	assert.ErrorIs(t, err, boom)
	m.AssertExpectations(t)
}

func TestStreamService_CancelledContext(t *testing.T) {
	svc := newService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SeededStream(ctx, "x", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, svc.ValidateSeed(ctx, "x", 1, nil), context.Canceled)
	assert.Empty(t, svc.Issued())
}

func TestStreamName(t *testing.T) {
	assert.Equal(t, "run/stage/key", StreamName("run", "stage", "key"))
	assert.Equal(t, "run/key", StreamName("run", "", "key"))
	assert.Equal(t, "", StreamName("", ""))
}
