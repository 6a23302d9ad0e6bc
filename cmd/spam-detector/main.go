package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/modelstore"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/di"
	"github.com/mikey/spam-classifier/internal/factory"
)

const usage = `Usage: spam-detector [flags] <command> [args]

Commands:
  train                 train a model on the dataset and store it
  predict [text]        score text (read from stdin when no argument is given)
  check <path>...       score RFC 5322 mail files or directories, grouped by sender
  gmail                 score the mailbox configured under gmail.*, grouped by sender

Flags:
`

func main() {
	flags := &di.CLIFlags{}
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	flag.StringVar(&flags.DatasetPath, "dataset", "", "Path to the tab-separated training dataset")
	flag.StringVar(&flags.Store, "store", "", "Model store (file, sqlite, mysql, redis)")
	flag.StringVar(&flags.ModelPath, "model", "", "Model artifact path for the file store")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, args := flag.Arg(0), flag.Args()[1:]
	err = container.Invoke(func(
		logger *zap.Logger,
		service *core.SpamFilterService,
		aggregator *core.Aggregator,
		sources *factory.SourceFactory,
		store modelstore.Store,
	) error {
		defer logger.Sync()
		defer store.Close()

		switch command {
		case "train":
			return train(ctx, service)
		case "predict":
			return predict(ctx, service, args)
		case "check":
			return summarize(ctx, service, aggregator, sources, "files", args)
		case "gmail":
			return summarize(ctx, service, aggregator, sources, "gmail", nil)
		default:
			flag.Usage()
			return fmt.Errorf("unknown command: %s", command)
		}
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func train(ctx context.Context, service *core.SpamFilterService) error {
	metrics, err := service.Train(ctx)
	if err != nil {
		return err
	}

	values := metrics.Map()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\n=== Metrics ===\n")
	for _, name := range names {
		fmt.Printf("%-18s %s\n", name+":", values[name])
	}
	return nil
}

func predict(ctx context.Context, service *core.SpamFilterService, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	if err := service.LoadOrTrain(ctx); err != nil {
		return err
	}
	prediction, err := service.Predict(ctx, text)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Is spam: %t\n", prediction.IsSpam)
	fmt.Printf("Score: %.4f\n", prediction.Score)
	fmt.Printf("Probability: %.4f\n", prediction.Probability)
	return nil
}

func summarize(
	ctx context.Context,
	service *core.SpamFilterService,
	aggregator *core.Aggregator,
	sources *factory.SourceFactory,
	kind string,
	paths []string,
) error {
	source, err := sources.CreateMailSource(ctx, kind, paths)
	if err != nil {
		return err
	}
	mails, err := source.Fetch(ctx)
	if err != nil {
		return err
	}

	if err := service.LoadOrTrain(ctx); err != nil {
		return err
	}
	results, err := aggregator.Summarize(ctx, mails)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
