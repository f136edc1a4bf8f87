// Command siftscan detects scale-space keypoints in an image and prints a
// summary, optionally writing a JSON report and a PNG overlay.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"sift-scalespace/internal/config"
	"sift-scalespace/internal/cvbridge"
	"sift-scalespace/internal/image"
	"sift-scalespace/internal/logging"
	"sift-scalespace/internal/render"
	"sift-scalespace/internal/report"
	"sift-scalespace/internal/sift"
	"sift-scalespace/internal/version"
)

func main() {
	input := flag.String("i", "", "Path to input image")
	octaves := flag.Int("octaves", -1, "Octave count (0 = as many as fit, -1 = from config)")
	configPath := flag.String("config", config.DefaultPath(), "Settings file")
	saveConfig := flag.Bool("save-config", false, "Write the effective settings back to -config")
	opencv := flag.Bool("opencv", false, "Load and blur with OpenCV")
	reportPath := flag.String("report", "", "Write a JSON report to this path")
	overlayPath := flag.String("overlay", "", "Write a PNG overlay to this path")
	magnify := flag.Int("magnify", 2, "Overlay magnification")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *input == "" {
		fmt.Println("Usage: siftscan -i <image> [-octaves n] [-opencv] [-report out.json] [-overlay out.png]")
		os.Exit(1)
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if *octaves >= 0 {
		settings.Params.Octaves = *octaves
	}
	if *opencv {
		settings.OpenCV = true
	}
	if *debug {
		settings.Debug = true
	}

	log := logging.Console(os.Stderr, settings.Debug)
	if *saveConfig {
		if err := settings.Save(*configPath); err != nil {
			log.Error().Err(err).Msg("save settings")
			os.Exit(1)
		}
		log.Info().Str("path", *configPath).Msg("saved settings")
	}

	if err := run(*input, settings, *reportPath, *overlayPath, *magnify, log); err != nil {
		log.Error().Stack().Err(err).Msg("scan failed")
		os.Exit(1)
	}
}

func run(input string, settings *config.File, reportPath, overlayPath string, magnify int, log zerolog.Logger) error {
	load := image.Load
	opts := sift.Options{Params: settings.Params, Logger: logging.Component(log, "sift")}
	if settings.OpenCV {
		load = cvbridge.Load
		opts.Blurrer = cvbridge.Blurrer{}
	}

	img, err := load(input)
	if err != nil {
		return errors.Wrapf(err, "load %s", input)
	}
	log.Info().Str("image", input).Int("rows", img.Rows()).Int("cols", img.Cols()).Bool("opencv", settings.OpenCV).Msg("loaded")

	pipe, err := sift.New(opts)
	if err != nil {
		return err
	}
	res, err := pipe.Run(img)
	if err != nil {
		return err
	}

	fmt.Printf("%d candidates, %d keypoints (%d edge, %d low contrast)\n",
		len(res.Candidates), len(res.KeyPoints), res.Stats.Edge, res.Stats.LowContrast)
	for i, kp := range res.KeyPoints {
		p := kp.BasePosition()
		bin, ok := res.Histograms[i].Dominant()
		dominant := "-"
		if ok {
			dominant = fmt.Sprintf("%d", bin)
		}
		fmt.Printf("  o=%d l=%d (%4d,%4d) base=(%.0f,%.0f) scale=%.3f response=%+.4f dominant=%s\n",
			kp.Octave, kp.Level, kp.Row, kp.Col, p.Y, p.X, kp.Scale, kp.Response, dominant)
	}

	if reportPath != "" {
		f := report.New(img.Rows(), img.Cols(), pipe.Params(), res)
		absReport, errR := filepath.Abs(reportPath)
		absInput, errI := filepath.Abs(input)
		if errR == nil && errI == nil {
			f.SetImage(absReport, absInput)
		}
		if err := f.Save(reportPath); err != nil {
			return err
		}
		log.Info().Str("path", reportPath).Msg("wrote report")
	}

	if overlayPath != "" {
		ropts := render.DefaultOptions()
		ropts.Magnify = magnify
		ropts.Levels = len(res.DoG[0])
		ropts.MinWindow = settings.Params.Orientation.MinWindow
		overlay, err := render.Overlay(img, res.KeyPoints, res.Histograms, ropts)
		if err != nil {
			return err
		}
		if err := render.Save(overlayPath, overlay); err != nil {
			return err
		}
		log.Info().Str("path", overlayPath).Msg("wrote overlay")
	}
	return nil
}
