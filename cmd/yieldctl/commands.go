package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/prediction"
	"github.com/yieldwise/yieldwise/internal/provider/resilience"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/weather/openweathermap"
	"github.com/yieldwise/yieldwise/internal/weather/simulated"
)

// env is bound into every command's Run.
type env struct {
	out     io.Writer
	json    bool
	catalog *crop.Catalog
	logger  zerolog.Logger
}

func (e *env) printJSON(v interface{}) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type scoreCmd struct {
	Crop        string  `required:"" help:"Crop id or alias, e.g. rice or paddy."`
	Temperature float64 `required:"" help:"Air temperature in Celsius."`
	Humidity    int     `required:"" help:"Relative humidity in percent (0-100)."`
	Condition   string  `default:"CLEAR" enum:"CLEAR,CLOUDS,RAIN,DRIZZLE,THUNDERSTORM,SNOW,MIST,FOG,HAZE,UNKNOWN" help:"Weather condition (${enum})."`
	Health      string  `default:"UNKNOWN" enum:"EXCELLENT,GOOD,FAIR,POOR,UNKNOWN" help:"Crop health band (${enum})."`
}

func (c *scoreCmd) Run(e *env) error {
	if c.Humidity < 0 || c.Humidity > 100 {
		return fmt.Errorf("humidity must be between 0 and 100, got %d", c.Humidity)
	}

	svc := prediction.NewService(prediction.ServiceConfig{
		Catalog: e.catalog,
		Logger:  e.logger,
	})
	outcome, err := svc.Score(context.Background(), prediction.ScoreInput{
		CropID: c.Crop,
		Weather: weather.Snapshot{
			Temperature: c.Temperature,
			Humidity:    c.Humidity,
			Condition:   weather.ParseCondition(c.Condition),
		},
		Band: health.ParseBand(c.Health),
	})
	if err != nil {
		return err
	}

	if e.json {
		return e.printJSON(outcome)
	}

	f := outcome.Yield.Factors
	fmt.Fprintf(e.out, "%s: %s yield (%d%%)\n", outcome.Crop.Name, outcome.Yield.Level, outcome.Yield.Percentage)
	fmt.Fprintf(e.out, "factor %.3f = mean(temperature %.2f, humidity %.2f, weather %.2f, health %.2f)\n",
		outcome.Yield.Factor, f.Temperature, f.Humidity, f.Weather, f.Health)
	for _, cat := range outcome.Recommendations.Categories() {
		fmt.Fprintf(e.out, "\n%s\n", cat.Name)
		for _, item := range cat.Items {
			fmt.Fprintf(e.out, "  - %s\n", item)
		}
	}
	return nil
}

type cropsCmd struct{}

func (c *cropsCmd) Run(e *env) error {
	crops := e.catalog.List()
	if e.json {
		return e.printJSON(crops)
	}

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOPTIMAL TEMP\tHUMIDITY\tWATER\tDAYS\tSEASON")
	for _, r := range crops {
		fmt.Fprintf(tw, "%s\t%s\t%.0f°C\t%d%%\t%s\t%d\t%s\n",
			r.ID, r.Name, r.OptimalTemp, r.OptimalHumidity, r.WaterNeeds, r.MaturityDays, r.Season)
	}
	return tw.Flush()
}

type cropCmd struct {
	ID string `arg:"" help:"Crop id or alias."`
}

func (c *cropCmd) Run(e *env) error {
	ref, err := e.catalog.Get(c.ID)
	if err != nil {
		return err
	}
	tips, err := e.catalog.PhotoTips(ref.ID)
	if err != nil {
		return err
	}

	if e.json {
		return e.printJSON(struct {
			crop.Reference
			Tips crop.PhotoTips `json:"tips"`
		}{ref, tips})
	}

	fmt.Fprintf(e.out, "%s (%s)\n", ref.Name, ref.ID)
	fmt.Fprintf(e.out, "optimal %.0f°C at %d%% humidity, %s water, %d days, %s\n",
		ref.OptimalTemp, ref.OptimalHumidity, strings.ToLower(string(ref.WaterNeeds)), ref.MaturityDays, ref.Season)
	fmt.Fprintf(e.out, "soil: %s\n", ref.SoilType)
	fmt.Fprintf(e.out, "pests: %s\n", strings.Join(ref.CommonPests, ", "))
	fmt.Fprintf(e.out, "diseases: %s\n", strings.Join(ref.CommonDiseases, ", "))
	fmt.Fprintln(e.out, "\nphoto tips")
	for _, tip := range append(tips.General, tips.Crop...) {
		fmt.Fprintf(e.out, "  - %s\n", tip)
	}
	return nil
}

type weatherCmd struct {
	Location string        `required:"" help:"Location name, e.g. Miami."`
	APIKey   string        `name:"api-key" env:"OPENWEATHERMAP_API_KEY" help:"OpenWeatherMap key; simulated weather is used when empty."`
	Timeout  time.Duration `default:"10s" help:"Lookup timeout."`
}

func (c *weatherCmd) Run(e *env) error {
	var provider weather.Provider = simulated.NewProvider(simulated.Config{})
	if c.APIKey != "" {
		provider = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:     c.APIKey,
			HTTPClient: resilience.NewClient(resilience.DefaultClientConfig(openweathermap.ProviderName)),
			Logger:     e.logger,
		})
	}
	svc := weather.NewService(weather.ServiceConfig{Provider: provider, Logger: e.logger})

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	snap, err := svc.GetCurrentWeather(ctx, c.Location)
	if err != nil {
		return err
	}

	if e.json {
		return e.printJSON(snap)
	}
	fmt.Fprintf(e.out, "%s: %.1f°C (feels %.1f°C), %d%% humidity, %s\n",
		snap.Location, snap.Temperature, snap.FeelsLike, snap.Humidity, snap.Condition)
	fmt.Fprintf(e.out, "range %.1f-%.1f°C, pressure %d hPa, source %s\n",
		snap.TempMin, snap.TempMax, snap.Pressure, snap.Source)
	return nil
}
