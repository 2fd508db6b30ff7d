package prediction_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/prediction"
	"github.com/yieldwise/yieldwise/internal/session"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

type fakeWeather struct {
	mu       sync.Mutex
	snapshot weather.Snapshot
	err      error
	calls    int
}

func (f *fakeWeather) GetCurrentWeather(ctx context.Context, location string) (*weather.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := f.snapshot
	s.Location = location
	return &s, nil
}

type fakeAnalyzer struct {
	mu       sync.Mutex
	result   *health.Result
	err      error
	expected []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, expectedCrop string, images []health.Image) (*health.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expected = append(f.expected, expectedCrop)
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	return &r, nil
}

func passingResult(band health.Band) *health.Result {
	return &health.Result{
		Verification: health.Verification{
			IsCorrectCrop:   true,
			MatchPercentage: 100,
			ExpectedCrop:    "rice",
			DetectedCrop:    "rice",
			TotalImages:     1,
			CorrectMatches:  1,
		},
		Assessment: health.Assessment{
			Band:        band,
			Confidence:  0.9,
			HealthScore: 90,
			GrowthStage: health.StageVegetative,
		},
		Advice: health.Advice(band),
	}
}

func failingResult() *health.Result {
	return &health.Result{
		Verification: health.Verification{
			IsCorrectCrop:   false,
			MatchPercentage: 0,
			ExpectedCrop:    "rice",
			DetectedCrop:    "wheat",
			TotalImages:     2,
			WrongMatches:    2,
		},
		Assessment: health.Assessment{
			Band:           health.BandVerificationFailed,
			Confidence:     health.FailedConfidence,
			DetectedIssues: []string{"Images show wheat instead of rice"},
			GrowthStage:    health.StageUnknown,
		},
		Advice: []string{"Upload clear photos of your rice crop"},
	}
}

type fixture struct {
	svc      *prediction.Service
	weather  *fakeWeather
	analyzer *fakeAnalyzer
	store    *session.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := crop.DefaultCatalog()
	require.NoError(t, err)

	store := session.NewMemoryStore(session.MemoryStoreConfig{Logger: zerolog.Nop()})
	w := &fakeWeather{snapshot: weather.Snapshot{
		Temperature: 28,
		Humidity:    80,
		Condition:   weather.ConditionClear,
	}}
	a := &fakeAnalyzer{result: passingResult(health.BandExcellent)}

	svc := prediction.NewService(prediction.ServiceConfig{
		Sessions: store,
		Weather:  w,
		Analyzer: a,
		Catalog:  catalog,
		Logger:   zerolog.Nop(),
	})

	return &fixture{svc: svc, weather: w, analyzer: a, store: store}
}

func images() []health.Image {
	return []health.Image{{Name: "field.jpg", MIMEType: "image/jpeg", Size: 2048, Width: 640, Height: 480}}
}

func TestService_FullWizard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.StepLocation, sess.NextStep())

	sess, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.NoError(t, err)
	require.NotNil(t, sess.Weather)
	assert.Equal(t, "Pune", sess.Location)
	assert.Equal(t, session.StepCrop, sess.NextStep())

	sess, err = f.svc.SelectCrop(ctx, sess.ID, "rice")
	require.NoError(t, err)
	assert.Equal(t, "rice", sess.CropID)
	assert.Equal(t, session.StepImages, sess.NextStep())

	sess, err = f.svc.SubmitImages(ctx, sess.ID, images())
	require.NoError(t, err)
	require.NotNil(t, sess.Analysis)
	assert.Len(t, sess.Images, 1)
	assert.Equal(t, []string{"rice"}, f.analyzer.expected)
	assert.Equal(t, session.StepPrediction, sess.NextStep())

	sess, err = f.svc.Predict(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, sess.Prediction)
	assert.Equal(t, yield.LevelHigh, sess.Prediction.Yield.Level)
	assert.InDelta(t, 1.0, sess.Prediction.Yield.Factor, 1e-9)
	assert.NotEmpty(t, sess.Prediction.Recommendations.General)
	assert.Equal(t, session.StepComplete, sess.NextStep())

	stored, err := f.svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Prediction.Yield, stored.Prediction.Yield)
}

func TestService_SelectCropRequiresLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.SelectCrop(ctx, sess.ID, "rice")
	require.ErrorIs(t, err, prediction.ErrStepIncomplete)

	var stepErr *prediction.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, session.StepLocation, stepErr.Required)
}

func TestService_SelectCropUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.NoError(t, err)

	_, err = f.svc.SelectCrop(ctx, sess.ID, "dragonfruit")
	assert.ErrorIs(t, err, crop.ErrUnknownCrop)

	_, err = f.svc.SelectCrop(ctx, sess.ID, crop.DefaultID)
	assert.ErrorIs(t, err, crop.ErrUnknownCrop)
}

func TestService_SelectCropResolvesAlias(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.NoError(t, err)

	sess, err = f.svc.SelectCrop(ctx, sess.ID, "Maize")
	require.NoError(t, err)
	assert.Equal(t, "corn", sess.CropID)
}

func TestService_ChangingCropClearsAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.NoError(t, err)
	_, err = f.svc.SelectCrop(ctx, sess.ID, "rice")
	require.NoError(t, err)
	_, err = f.svc.SubmitImages(ctx, sess.ID, images())
	require.NoError(t, err)

	sess, err = f.svc.SelectCrop(ctx, sess.ID, "rice")
	require.NoError(t, err)
	assert.NotNil(t, sess.Analysis, "same crop keeps analysis")

	sess, err = f.svc.SelectCrop(ctx, sess.ID, "wheat")
	require.NoError(t, err)
	assert.Nil(t, sess.Analysis)
	assert.Nil(t, sess.Images)
	assert.Equal(t, session.StepImages, sess.NextStep())
}

func TestService_SubmitImagesRequiresCrop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.SubmitImages(ctx, sess.ID, images())
	var stepErr *prediction.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, session.StepLocation, stepErr.Required)
}

func TestService_SubmitImagesAnalyzerError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.analyzer.err = health.ErrAnalysisUnavailable

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.NoError(t, err)
	_, err = f.svc.SelectCrop(ctx, sess.ID, "rice")
	require.NoError(t, err)

	_, err = f.svc.SubmitImages(ctx, sess.ID, images())
	require.ErrorIs(t, err, health.ErrAnalysisUnavailable)

	stored, err := f.svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Analysis)
}

func TestService_PredictBlockedByFailedVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.analyzer.result = failingResult()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.NoError(t, err)
	_, err = f.svc.SelectCrop(ctx, sess.ID, "rice")
	require.NoError(t, err)
	_, err = f.svc.SubmitImages(ctx, sess.ID, images())
	require.NoError(t, err)

	_, err = f.svc.Predict(ctx, sess.ID)
	require.ErrorIs(t, err, prediction.ErrVerificationFailed)

	var verr *prediction.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rice", verr.ExpectedCrop)
	assert.Equal(t, "wheat", verr.DetectedCrop)
	assert.NotEmpty(t, verr.Issues)
	assert.NotEmpty(t, verr.Advice)

	stored, err := f.svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Prediction)

	// New images that pass unblock the prediction.
	f.analyzer.result = passingResult(health.BandGood)
	_, err = f.svc.SubmitImages(ctx, sess.ID, images())
	require.NoError(t, err)
	sess, err = f.svc.Predict(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotNil(t, sess.Prediction)
}

func TestService_PredictIncompleteSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.NoError(t, err)
	_, err = f.svc.SelectCrop(ctx, sess.ID, "rice")
	require.NoError(t, err)

	_, err = f.svc.Predict(ctx, sess.ID)
	var stepErr *prediction.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, session.StepImages, stepErr.Required)
	assert.Contains(t, err.Error(), "images step required")
}

func TestService_SetLocationDropsPrediction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.NoError(t, err)
	_, err = f.svc.SelectCrop(ctx, sess.ID, "rice")
	require.NoError(t, err)
	_, err = f.svc.SubmitImages(ctx, sess.ID, images())
	require.NoError(t, err)
	_, err = f.svc.Predict(ctx, sess.ID)
	require.NoError(t, err)

	sess, err = f.svc.SetLocation(ctx, sess.ID, "Nashik")
	require.NoError(t, err)
	assert.Nil(t, sess.Prediction)
	assert.NotNil(t, sess.Analysis)
	assert.Equal(t, session.StepPrediction, sess.NextStep())
}

func TestService_SetLocationWeatherError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.weather.err = weather.ErrProviderUnavailable

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.SetLocation(ctx, sess.ID, "Pune")
	require.ErrorIs(t, err, weather.ErrProviderUnavailable)

	stored, err := f.svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Weather)
}

func TestService_UnknownSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = f.svc.SetLocation(ctx, "missing", "Pune")
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = f.svc.Predict(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestService_DeleteSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteSession(ctx, sess.ID))

	_, err = f.svc.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestService_Score(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.Score(context.Background(), prediction.ScoreInput{
		CropID:  "rice",
		Weather: weather.Snapshot{Temperature: 28, Humidity: 80, Condition: weather.ConditionClear},
		Band:    health.BandExcellent,
	})
	require.NoError(t, err)
	assert.Equal(t, "rice", out.Crop.ID)
	assert.Equal(t, yield.LevelHigh, out.Yield.Level)
	assert.Equal(t, 0, f.weather.calls)
}

func TestService_ScoreUnknownCropFallsBack(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.Score(context.Background(), prediction.ScoreInput{
		CropID:  "dragonfruit",
		Weather: weather.Snapshot{Temperature: 25, Humidity: 60, Condition: weather.ConditionClouds},
		Band:    health.BandUnknown,
	})
	require.NoError(t, err)
	assert.True(t, out.Crop.IsDefault())
}

func TestService_ScoreRejectsFailedBand(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Score(context.Background(), prediction.ScoreInput{
		CropID: "rice",
		Band:   health.BandVerificationFailed,
	})
	assert.ErrorIs(t, err, prediction.ErrVerificationFailed)
}

func TestService_WeatherTimeout(t *testing.T) {
	catalog, err := crop.DefaultCatalog()
	require.NoError(t, err)

	svc := prediction.NewService(prediction.ServiceConfig{
		Sessions:       session.NewMemoryStore(session.MemoryStoreConfig{Logger: zerolog.Nop()}),
		Weather:        blockingWeather{},
		Analyzer:       &fakeAnalyzer{result: passingResult(health.BandGood)},
		Catalog:        catalog,
		Logger:         zerolog.Nop(),
		WeatherTimeout: 20 * time.Millisecond,
	})

	_, err = svc.Weather(context.Background(), "Pune")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type blockingWeather struct{}

func (blockingWeather) GetCurrentWeather(ctx context.Context, _ string) (*weather.Snapshot, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
