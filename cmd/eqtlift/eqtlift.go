/*eqtlift lifts eQTL association matrix tables between reference genome builds
 */
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/plantimals/eqtlift/config"
	"github.com/plantimals/eqtlift/convert"
	"github.com/plantimals/eqtlift/liftover"
	"github.com/plantimals/eqtlift/reference"
	"github.com/plantimals/eqtlift/store"
	"github.com/plantimals/eqtlift/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("eqtlift", "lift eQTL association matrix tables from one reference genome build to another")

	configFile = app.Flag("config", "YAML file with liftover and storage settings").Short('c').ExistingFile()
	logLevel   = app.Flag("log-level", "log level: debug, info, warn or error").Default("info").String()

	lift            = app.Command("lift", "lift a matrix table onto a new reference build")
	liftSource      = lift.Flag("source", "location of the source matrix table").Short('s').String()
	liftDestination = lift.Flag("destination", "location to write the lifted table to").Short('d').String()
	liftChain       = lift.Flag("chain", "chain file mapping the source build onto the destination build, plain or gzipped").String()
	liftSourceRef   = lift.Flag("source-reference", "reference genome of the source table").String()
	liftDestRef     = lift.Flag("dest-reference", "reference genome to lift onto").String()
	liftPartitions  = lift.Flag("partitions", "number of output partitions, 0 keeps the source's").Short('n').Int()
	liftWorkers     = lift.Flag("workers", "concurrent partition readers, writers and liftover workers").Short('w').Int()
	liftNoOverwrite = lift.Flag("no-overwrite", "fail instead of replacing an existing destination table").Bool()
	liftDescribe    = lift.Flag("describe", "print the schema of the source and lifted tables").Bool()
	liftMetrics     = lift.Flag("metrics-textfile", "write prometheus metrics to this file when done").String()

	describe      = app.Command("describe", "print the schema of a matrix table")
	describeTable = describe.Arg("table", "location of the matrix table").Required().String()

	export      = app.Command("export-vcf", "write the variants of a matrix table as a bgzipped vcf")
	exportTable = export.Arg("table", "location of the matrix table").Required().String()
	exportOut   = export.Flag("output-file", "location of the vcf output, gzipped").Short('o').Required().String()
)

var (
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func main() {
	app.UsageTemplate(kingpin.CompactUsageTemplate).Version("1.0.0")
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	setupLogging(*logLevel)
	cfg := &config.Config{}
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		app.FatalIfError(err, "")
	}
	if cfg.LogLevel != "" && *logLevel == "info" {
		setupLogging(cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case lift.FullCommand():
		RunLift(ctx, cfg)
	case describe.FullCommand():
		RunDescribe(ctx, cfg)
	case export.FullCommand():
		RunExport(ctx, cfg)
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		kingpin.Fatalf("bad log level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func liftConfig(cfg *config.Config) liftover.Config {
	lc := liftover.DefaultConfig()
	cfg.Apply(&lc)
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&lc.Source, *liftSource)
	set(&lc.Destination, *liftDestination)
	set(&lc.Chain, *liftChain)
	set(&lc.SourceReference, *liftSourceRef)
	set(&lc.DestReference, *liftDestRef)
	if *liftPartitions > 0 {
		lc.Partitions = *liftPartitions
	}
	if *liftWorkers > 0 {
		lc.Workers = *liftWorkers
	}
	if *liftNoOverwrite {
		lc.Overwrite = false
	}
	if *liftDescribe {
		lc.Describe = os.Stdout
	}
	return lc
}

func RunLift(ctx context.Context, cfg *config.Config) {
	lc := liftConfig(cfg)
	if err := lc.Validate(); err != nil {
		kingpin.FatalUsage("%s", err)
	}
	metricsFile := *liftMetrics
	if metricsFile == "" {
		metricsFile = cfg.MetricsTextfile
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Prefix = "lifting " + lc.SourceReference + " to " + lc.DestReference + "   "
	if lc.Describe == nil {
		s.Start()
	}

	p := liftover.New()
	stats, err := p.Run(ctx, lc)
	s.Stop()
	if metricsFile != "" {
		if merr := p.Metrics.WriteTextfile(metricsFile); merr != nil {
			log.Error().Err(merr).Str("path", metricsFile).Msg("failed to write metrics")
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, red("liftover failed"))
		log.Fatal().Err(err).Msg("liftover failed")
	}

	fmt.Printf("\nlifted %s of %d rows (%d dropped) into %d partitions\n",
		green(stats.Mapped), stats.Read, stats.Dropped, stats.Partitions)
	fmt.Printf("table output at: %s\n\n", cyan(lc.Destination))
}

func openTable(ctx context.Context, cfg *config.Config, location string) *table.Table {
	s, err := store.New(ctx, location, cfg.Storage.Options())
	app.FatalIfError(err, "opening %s", location)
	t, err := table.Read(ctx, s, reference.NewRegistry(), table.IOOptions{Workers: cfg.Workers})
	app.FatalIfError(err, "reading %s", location)
	return t
}

func RunDescribe(ctx context.Context, cfg *config.Config) {
	openTable(ctx, cfg, *describeTable).Describe(os.Stdout)
}

func RunExport(ctx context.Context, cfg *config.Config) {
	t := openTable(ctx, cfg, *exportTable)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Prefix = "converting table to vcf   "
	s.Start()

	out, err := store.CreateFile(ctx, *exportOut, cfg.Storage.Options())
	if err == nil {
		err = convert.NewClient(t).ConvertTable(out)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}
	s.Stop()
	app.FatalIfError(err, "writing %s", *exportOut)

	fmt.Printf("\nvcf output at: %s\n\n", cyan(*exportOut))
}
