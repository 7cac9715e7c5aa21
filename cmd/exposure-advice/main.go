package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/exposure-advice/internal/config"
	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/internal/logging"
	"github.com/iwvelando/exposure-advice/internal/meter"
	"github.com/iwvelando/exposure-advice/pkg/constants"
	"github.com/iwvelando/exposure-advice/pkg/exifmeter"
	"github.com/iwvelando/exposure-advice/pkg/output"
	"github.com/iwvelando/exposure-advice/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	configLocation := flag.String("config", "", "path to configuration file (when empty, "+constants.DefaultConfigFile+" is used if present, else built-in defaults)")
	offset := flag.Float64("offset", 0, "metered exposure offset in EV (positive is overexposed)")
	shutter := flag.Int("shutter", 125, "current manual shutter speed as a reciprocal second (125 = 1/125 s)")
	iso := flag.Int("iso", 100, "current manual ISO")
	shift := flag.Int("shift", constants.DefaultShift, "preference shift toward faster (+) or slower (-) shutter")
	image := flag.String("image", "", "reference photo whose EXIF exposure seeds -shutter and -iso")
	watch := flag.Bool("watch", false, "read metered offsets from stdin, one per line, and apply advice continuously")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json (not used with -watch)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	*configLocation = config.ResolvePath(*configLocation, ".")

	conf := config.Default()
	if *configLocation != "" {
		var err error
		conf, err = config.LoadConfiguration(*configLocation)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
			os.Exit(1)
		}
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if err := validation.ValidateWatchOutput(*watch, *outputFormatFlag); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if err := validation.ValidateOffset(*offset); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	presets, err := conf.BuildPresets()
	if err != nil {
		logger.Fatal("failed to build presets",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	advisor := exposure.NewAdvisor(logger, presets)

	userShift := conf.Advisor.Shift
	if flagWasSet("shift") {
		userShift = *shift
	}
	userShift, warning := validation.ClampShift(userShift, conf.Advisor.ShiftMin, conf.Advisor.ShiftMax)
	if warning != "" {
		logger.Warn(warning, zap.String("op", "main"))
	}

	manual := exposure.ExposureAdvice{Shutter: exposure.ShutterSpeed(*shutter), ISO: exposure.ISOValue(*iso)}
	if *image != "" {
		manual, err = readImageExposure(*image, presets)
		if err != nil {
			logger.Fatal("failed to read exposure from image",
				zap.String("op", "main"),
				zap.String("image", *image),
				zap.Error(err),
			)
		}
		logger.Info("manual exposure seeded from image",
			zap.String("op", "main"),
			zap.String("image", *image),
			zap.Int("shutter", int(manual.Shutter)),
			zap.Int("iso", int(manual.ISO)),
		)
	}

	if *watch {
		if err := runWatch(logger, advisor, manual, userShift, conf); err != nil {
			logger.Fatal("metering loop failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	result := advisor.Advise(*offset, manual, userShift)

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, result)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, result)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(os.Stdout, result)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func readImageExposure(path string, presets exposure.Presets) (exposure.ExposureAdvice, error) {
	reader, err := exifmeter.NewReader(presets)
	if err != nil {
		return exposure.ExposureAdvice{}, err
	}
	defer func() {
		_ = reader.Close()
	}()
	return reader.ReadFile(path)
}

func runWatch(logger *zap.Logger, advisor *exposure.Advisor, manual exposure.ExposureAdvice, shift int, conf *config.Configuration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := meter.NewSettingsDriver(manual, nil)
	loop := meter.NewLoop(logger, advisor, meter.NewLineMeter(os.Stdin, driver, shift), driver, conf.Advisor.Interval)
	loop.OnTick(func(o meter.Outcome) {
		if err := output.AppliedLine(os.Stdout, o.Reading.OffsetEV, driver.Current(), o.Applied); err != nil {
			logger.Warn("failed to write output", zap.String("op", "main.runWatch"), zap.Error(err))
		}
	})

	logger.Info("metering loop started",
		zap.String("op", "main.runWatch"),
		zap.Duration("interval", conf.Advisor.Interval),
	)
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
