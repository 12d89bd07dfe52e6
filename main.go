package main

import (
	"fmt"
	"log"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/pdok/centerline/converters"
)

const DENSITY string = `density`
const PAGESIZE string = `pagesize`

func main() {
	app := cli.NewApp()
	app.Name = "centerline"
	app.Usage = "Convert polygon vector files to centerlines"
	app.Version = versioninfo.Short()
	app.ArgsUsage = "SRC DST"
	app.Description = "Converts the polygon and multipolygon geometries in SRC to centerlines in DST. " +
		"The output format is derived from the DST file extension. " +
		"Feature attributes are copied; features the algorithm cannot handle are skipped with a warning."

	app.Flags = []cli.Flag{
		&cli.Float64Flag{
			Name:    DENSITY,
			Aliases: []string{"d"},
			Usage:   "Border density, the interpolation distance along the polygon borders",
			Value:   0.5,
			EnvVars: []string{strcase.ToScreamingSnake(DENSITY)},
		},
		&cli.IntFlag{
			Name:    PAGESIZE,
			Aliases: []string{"p"},
			Usage:   "Page Size, how many features are written per transaction to the target",
			Value:   1000,
			EnvVars: []string{strcase.ToScreamingSnake(PAGESIZE)},
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.NArg() != 2 {
			return fmt.Errorf("expected exactly 2 arguments (SRC DST), got %d", c.NArg())
		}
		src := c.Args().Get(0)
		dst := c.Args().Get(1)

		if _, err := os.Stat(src); os.IsNotExist(err) {
			return fmt.Errorf("error opening source file: %w", err)
		}

		return converters.CreateCenterlines(src, dst, converters.Options{
			Density:  c.Float64(DENSITY),
			Pagesize: c.Int(PAGESIZE),
		})
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
