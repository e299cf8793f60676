package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	"nejetool/internal/logger"
	"nejetool/pkg/convert"
)

var filter = flag.StringP("filter", "f", "nearest", "resampling filter: nearest, box, linear or lanczos")
var preview = flag.String("preview", "", "also render the result to this PNG file")
var debug = flag.Bool("debug", false, "debug logging")

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Converts an image to the NEJE 512x512 monochrome bitmap format\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <infile|url> <outfile>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return 2
	}

	filterOpt, err := convert.FilterOption(*filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 2
	}

	log, err := logger.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	defer func() {
		_ = log.Sync()
	}()

	c := convert.New(afero.NewOsFs(), filterOpt, convert.WithLogger(log))

	if _, err := c.Convert(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	if *preview != "" {
		if err := c.Preview(flag.Arg(1), *preview); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 1
		}
	}
	return 0
}
