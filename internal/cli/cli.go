package cli

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-outlook/internal/weather"
)

// New returns the root command. load is called once, before the first
// subcommand runs.
func New(load Loader) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:          "weather-outlook",
		Short:        "Current conditions, 7-day outlook and place suggestions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app != nil {
				return nil
			}
			a, err := load()
			if err != nil {
				return err
			}
			app = a
			return nil
		},
	}

	current := func() *App { return app }

	root.AddCommand(
		newServeCommand(current),
		newWeatherCommand(current),
		newSuggestCommand(current),
	)
	return root
}

func newWeatherCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "weather <city>",
		Short: "Print current conditions and the daily outlook for a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			info, err := a.Weather.Fetch(cmd.Context(), args[0])
			if err != nil {
				a.Log.Debug().Err(err).Str("city", args[0]).Msg("weather lookup failed")
				return errors.New(weather.UserMessage(err))
			}

			cmd.Printf("LOCATION\t %s, %s\n", info.LocationName, info.CountryCode)
			cmd.Printf("NOW\t\t %.0f°C (hissedilen %.0f°C), nem %%%d\n", info.Temp, info.FeelsLike, info.Humidity)
			cmd.Printf("SUMMARY\t\t %s\n", info.Summary)
			cmd.Printf("PRECIP\t\t %%%d\n", info.PrecipitationPercent)

			if len(info.DailyForecast) == 0 {
				return nil
			}

			cmd.Printf("\nDATE\t\t")
			for _, day := range info.DailyForecast {
				cmd.Printf("%6s ", dayLabel(day.Date))
			}
			cmd.Printf("\nTEMP\t\t")
			for _, day := range info.DailyForecast {
				cmd.Printf("%6d ", day.AvgTemp)
			}
			cmd.Printf("\nMIN/MAX\t\t")
			for _, day := range info.DailyForecast {
				cmd.Printf("%6s ", minMax(day))
			}
			cmd.Printf("\nPRECIP\t\t")
			for _, day := range info.DailyForecast {
				cmd.Printf("%5d%% ", day.PrecipitationPercent)
			}
			cmd.Printf("\n")

			return nil
		},
	}
}

func newSuggestCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <query>",
		Short: "List places matching a partial name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates := app().Resolver.Resolve(cmd.Context(), args[0])
			if len(candidates) == 0 {
				cmd.Println("no matching places")
				return nil
			}
			for _, c := range candidates {
				cmd.Printf("%-30s\t%s\n", c.FullName, c.SearchQuery)
			}
			return nil
		},
	}
}

func dayLabel(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("02 Jan")
}

func minMax(d weather.DailySummary) string {
	return strconv.Itoa(d.TempMin) + "/" + strconv.Itoa(d.TempMax)
}
