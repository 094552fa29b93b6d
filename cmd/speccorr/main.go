// Command speccorr applies continuum corrections to reflectance spectra
// stored as wavelength/value CSV files.
//
// Usage:
//
//	speccorr <linear|horgan|regression> -file spectrum.csv [flags]
//
// Examples:
//
//	speccorr linear -file spectrum.csv
//	speccorr linear -file spectrum.csv -nodes 450,550,780 -out corrected.csv
//	speccorr horgan -file spectrum.csv -a 1100 -b 1400 -c 2000 -window 200
//	speccorr regression -file spectrum.csv -smooth 5 -chart result.html
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/cwbudde/algo-spectral/correct/continuum"
	"github.com/cwbudde/algo-spectral/correct/smooth"
	"github.com/cwbudde/algo-spectral/spectral/axis"
	"github.com/cwbudde/algo-spectral/spectral/series"
	"github.com/cwbudde/algo-spectral/specio"
)

func main() {
	var (
		fileName     string
		outPath      string
		chartPath    string
		nodesArg     string
		refA         float64
		refB         float64
		refC         float64
		window       float64
		smoothWindow int
		verbose      bool
	)

	commonFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "Input spectrum CSV (wavelength,value)",
				Destination: &fileName,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "Write wavelength,corrected,continuum CSV to this path",
				Destination: &outPath,
			},
			&cli.StringFlag{
				Name:        "chart",
				Usage:       "Render an HTML line chart to this path",
				Destination: &chartPath,
			},
			&cli.IntFlag{
				Name:        "smooth",
				Usage:       "Moving-average window applied before correction",
				Destination: &smoothWindow,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Enable debug logging",
				Destination: &verbose,
			},
		}
	}

	loadInput := func() (*series.Spectrum, error) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		s, err := specio.LoadSpectrum(fileName, nil)
		if err != nil {
			return nil, err
		}
		log.Debugf("loaded %d samples from %s", s.Len(), fileName)

		if smoothWindow > 1 {
			values, err := smooth.MovingAverage(s.Values(), smoothWindow)
			if err != nil {
				return nil, err
			}
			s, err = s.Derive(values)
			if err != nil {
				return nil, err
			}
			log.Debugf("smoothed with window %d", smoothWindow)
		}

		return s, nil
	}

	emit := func(title string, wavelengths, raw []float64, res continuum.Result) error {
		report(wavelengths, res)

		if outPath != "" {
			if err := specio.SaveResult(outPath, wavelengths, res); err != nil {
				return err
			}
			log.Infof("wrote %s", outPath)
		}
		if chartPath != "" {
			if err := drawChart(chartPath, title, wavelengths, raw, res); err != nil {
				return err
			}
			log.Infof("wrote %s", chartPath)
		}
		return nil
	}

	app := &cli.App{
		Name:                 "speccorr",
		Usage:                "Continuum correction for reflectance spectra",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:    "linear",
				Aliases: []string{"l"},
				Usage:   "Segment-wise linear continuum correction",
				Action: func(cCtx *cli.Context) error {
					s, err := loadInput()
					if err != nil {
						return err
					}

					nodes, err := parseNodes(nodesArg)
					if err != nil {
						return err
					}

					res, err := continuum.Linear(s, nodes)
					if err != nil {
						return err
					}
					if res.IsSentinel() {
						return fmt.Errorf("need at least two nodes, got %d", len(nodes))
					}

					wavelengths, raw, err := coveredRange(s, nodes, len(res.Corrected))
					if err != nil {
						return err
					}
					return emit("Linear continuum correction", wavelengths, raw, res)
				},
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:        "nodes",
						Aliases:     []string{"n"},
						Usage:       "Comma-separated node wavelengths (default: full range)",
						Destination: &nodesArg,
					},
				),
			},
			{
				Name:    "horgan",
				Aliases: []string{"p"},
				Usage:   "Polynomial continuum correction through three shoulder maxima",
				Action: func(cCtx *cli.Context) error {
					s, err := loadInput()
					if err != nil {
						return err
					}

					wavelengths := []float64(s.Wavelengths())
					raw := s.Values()

					res, err := continuum.Horgan(raw, wavelengths, refA, refB, refC, window)
					if err != nil {
						return err
					}
					if !res.Converged {
						log.Warn("correction did not converge; results are the last fit")
					}
					return emit("Polynomial continuum correction", wavelengths, raw, res)
				},
				Flags: append(commonFlags(),
					&cli.Float64Flag{
						Name:        "a",
						Usage:       "First shoulder reference wavelength",
						Destination: &refA,
						Required:    true,
					},
					&cli.Float64Flag{
						Name:        "b",
						Usage:       "Second shoulder reference wavelength",
						Destination: &refB,
						Required:    true,
					},
					&cli.Float64Flag{
						Name:        "c",
						Usage:       "Third shoulder reference wavelength",
						Destination: &refC,
						Required:    true,
					},
					&cli.Float64Flag{
						Name:        "window",
						Aliases:     []string{"w"},
						Usage:       "Half-width of the shoulder search windows",
						Destination: &window,
						Required:    true,
					},
				),
			},
			{
				Name:    "regression",
				Aliases: []string{"r"},
				Usage:   "Whole-range linear regression continuum correction",
				Action: func(cCtx *cli.Context) error {
					s, err := loadInput()
					if err != nil {
						return err
					}

					wavelengths := []float64(s.Wavelengths())
					raw := s.Values()

					res, err := continuum.Regression(wavelengths, raw)
					if err != nil {
						return err
					}
					return emit("Regression continuum correction", wavelengths, raw, res)
				},
				Flags: commonFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// parseNodes splits a comma-separated wavelength list. An empty argument
// means "use the default nodes" and maps to nil.
func parseNodes(arg string) ([]float64, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}

	parts := strings.Split(arg, ",")
	nodes := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad node %q: %w", p, err)
		}
		nodes[i] = v
	}
	return nodes, nil
}

// coveredRange returns the wavelength and raw-value slices a linear
// correction of the given length covers. With subset nodes the correction
// spans only the resolved node range, so the output is offset into the
// source spectrum.
func coveredRange(s *series.Spectrum, nodes []float64, n int) ([]float64, []float64, error) {
	wavelengths := []float64(s.Wavelengths())
	raw := s.Values()

	if n == len(raw) {
		return wavelengths, raw, nil
	}

	start, err := axis.Nearest(s.RawWavelengths(), nodes[0])
	if err != nil {
		return nil, nil, err
	}
	return wavelengths[start : start+n], raw[start : start+n], nil
}

// report prints the deepest point of the corrected spectrum, the usual
// headline number for an absorption feature.
func report(wavelengths []float64, res continuum.Result) {
	if len(res.Corrected) == 0 {
		return
	}

	depth := 0
	for i := range res.Corrected {
		if res.Corrected[i] < res.Corrected[depth] {
			depth = i
		}
	}
	fmt.Printf("samples: %d  band minimum: %.6g at %.6g\n",
		len(res.Corrected), res.Corrected[depth], wavelengths[depth])
}

func drawChart(name, title string, wavelengths, raw []float64, res continuum.Result) error {
	line := charts.NewLine()

	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
		Title: title,
	}))

	xaxis := make([]string, len(wavelengths))
	rawData := make([]opts.LineData, len(wavelengths))
	corrData := make([]opts.LineData, len(wavelengths))
	contData := make([]opts.LineData, len(wavelengths))
	for i, w := range wavelengths {
		xaxis[i] = strconv.FormatFloat(w, 'g', -1, 64)
		rawData[i] = opts.LineData{Value: raw[i]}
		corrData[i] = opts.LineData{Value: res.Corrected[i]}
		contData[i] = opts.LineData{Value: res.Continuum[i]}
	}

	line.SetXAxis(xaxis).
		AddSeries("reflectance", rawData).
		AddSeries("corrected", corrData).
		AddSeries("continuum", contData)

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	return line.Render(f)
}
