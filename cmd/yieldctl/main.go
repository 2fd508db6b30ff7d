// Package main provides yieldctl, a command line client for the YieldWise
// scoring engine.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/crop"
)

// Set via ldflags.
var version = "dev"

type cli struct {
	JSON    bool             `help:"Print JSON instead of text." name:"json"`
	Debug   bool             `help:"Log debug output to stderr."`
	Version kong.VersionFlag `help:"Print the version and exit."`

	Score   scoreCmd   `cmd:"" help:"Score a crop against weather and health inputs."`
	Crops   cropsCmd   `cmd:"" help:"List the crop catalog."`
	Crop    cropCmd    `cmd:"" help:"Show one crop and its photo tips."`
	Weather weatherCmd `cmd:"" help:"Show current weather for a location."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("yieldctl"),
		kong.Description("Crop yield scoring and recommendations."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	level := zerolog.WarnLevel
	if c.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	catalog, err := crop.DefaultCatalog()
	ctx.FatalIfErrorf(err)

	ctx.FatalIfErrorf(ctx.Run(&env{
		out:     os.Stdout,
		json:    c.JSON,
		catalog: catalog,
		logger:  logger,
	}))
}
