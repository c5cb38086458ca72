package main

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"choropleth/core-go/internal/colorscale"
	"choropleth/core-go/internal/config"
	"choropleth/core-go/internal/dataset"
	"choropleth/core-go/internal/httpapi"
	"choropleth/core-go/internal/legend"
	"choropleth/core-go/internal/widget"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "choropleth",
		Usage:   "Join region boundaries with metric values and emit styled GeoJSON",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "presentation",
				Usage:   "YAML file overriding colors, opacities and tooltip units",
				EnvVars: []string{"PRESENTATION_PATH"},
			},
		},
		Commands: []*cli.Command{
			styleCommand(),
			legendCommand(),
			resolveCommand(),
		},
	}
}

func styleCommand() *cli.Command {
	return &cli.Command{
		Name:  "style",
		Usage: "Write the styled FeatureCollection to stdout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "regions",
				Aliases:  []string{"r"},
				Usage:    "Region GeoJSON FeatureCollection",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "metrics",
				Aliases: []string{"m"},
				Usage:   "Metric records (.json, .yaml)",
			},
			&cli.StringFlag{
				Name:  "code-property",
				Value: dataset.DefaultCodeProperty,
				Usage: "Feature property holding the region code",
			},
			&cli.StringFlag{
				Name:  "highlight",
				Usage: "Region code to render as highlighted",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Indent the output",
			},
		},
		Action: func(c *cli.Context) error {
			log := httpapi.NewConsoleLogger(c.String("log-level"))
			p, err := presentation(c)
			if err != nil {
				return err
			}

			m, err := widget.LoadFiles(
				log,
				c.String("regions"),
				c.String("metrics"),
				dataset.RegionOptions{CodeProperty: c.String("code-property")},
				widget.Options{Style: p.Style, Tooltip: p.Tooltip},
			)
			if err != nil {
				return err
			}
			defer m.Close()

			if code := strings.TrimSpace(c.String("highlight")); code != "" {
				if _, err := m.PointerEnter(code); err != nil {
					return err
				}
				log.Info().Str("text", m.Tooltip().Text).Msg("highlighted")
			}

			return writeJSON(c, m.FeatureCollection(), c.Bool("pretty"))
		},
	}
}

type legendOutput struct {
	Entries []legend.Entry `json:"entries"`
	NoData  legend.Entry   `json:"no_data"`
}

func legendCommand() *cli.Command {
	return &cli.Command{
		Name:  "legend",
		Usage: "Print the color scale legend",
		Action: func(c *cli.Context) error {
			p, err := presentation(c)
			if err != nil {
				return err
			}
			return writeJSON(c, legendOutput{
				Entries: legend.Render(),
				NoData:  legend.NoData(p.Style.NoDataColor),
			}, true)
		},
	}
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Print the fill color for each value",
		ArgsUsage: "VALUE...",
		// Values such as -5 are arguments, not flags.
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("resolve needs at least one value")
			}
			p, err := presentation(c)
			if err != nil {
				return err
			}
			for _, arg := range c.Args().Slice() {
				v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
				if err != nil {
					v = math.NaN()
				}
				color, ok := colorscale.Resolve(v)
				if !ok {
					color = p.Style.NoDataColor
				}
				fmt.Fprintf(c.App.Writer, "%s\t%s\n", arg, color)
			}
			return nil
		},
	}
}

func presentation(c *cli.Context) (config.Presentation, error) {
	path := c.String("presentation")
	if path == "" {
		return config.DefaultPresentation(), nil
	}
	return config.ReadPresentationFile(path)
}

func writeJSON(c *cli.Context, v any, pretty bool) error {
	enc := json.NewEncoder(c.App.Writer)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
