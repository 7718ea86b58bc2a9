// Command export writes the prepared fires table to a file and
// optionally publishes it to Kafka.
//
// Usage:
//
//	go run ./cmd/export -format csv -out exports/fires.csv
//	go run ./cmd/export -format parquet -out exports/fires.parquet
//	go run ./cmd/export -format geojson -out exports/map.geojson
//	go run ./cmd/export -publish
//
// Source paths come from the environment (DATA_PATH, GEO_PATH), same as
// the dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/joho/godotenv"

	"github.com/LoreEMF/spain-wildfires/internal/adapter/csvfile"
	"github.com/LoreEMF/spain-wildfires/internal/adapter/geofile"
	kafkaadapter "github.com/LoreEMF/spain-wildfires/internal/adapter/kafka"
	"github.com/LoreEMF/spain-wildfires/internal/adapter/parquetfile"
	"github.com/LoreEMF/spain-wildfires/internal/config"
	"github.com/LoreEMF/spain-wildfires/internal/dataset"
	"github.com/LoreEMF/spain-wildfires/internal/domain"
	"github.com/LoreEMF/spain-wildfires/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	format := flag.String("format", "csv", "export format: csv, parquet, or geojson")
	out := flag.String("out", "", "output file path")
	publish := flag.Bool("publish", false, "publish prepared records to Kafka")
	withTotal := flag.Bool("with-total", true, "append the total_medios column to table exports")
	flag.Parse()

	if *out == "" && !*publish {
		flag.Usage()
		return fmt.Errorf("nothing to do: pass -out and/or -publish")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	data := dataset.New(
		csvfile.NewReader(cfg.DataPath, cfg.Separator()),
		geofile.NewReader(cfg.GeoPath),
		cfg, logger, metrics,
	)

	ctx := context.Background()
	if err := data.Load(ctx); err != nil {
		return err
	}

	table := data.Table()
	if *withTotal {
		withResources, err := domain.TotalResources(table)
		if err != nil {
			logger.Warn("skipping total_medios column", "error", err)
		} else {
			table = withResources
		}
	}

	if *out != "" {
		if err := writeExport(data, table, *format, *out); err != nil {
			return err
		}
		logger.Info("export written", "format", *format, "path", *out, "records", len(table.Records))
	}

	if *publish {
		publisher := kafkaadapter.NewPublisher(cfg, logger, metrics)
		defer publisher.Close()
		if err := publisher.PublishTable(ctx, table); err != nil {
			return err
		}
	}

	return nil
}

func writeExport(data *dataset.Dataset, table domain.Table, format, out string) error {
	switch format {
	case "csv":
		return csvfile.NewWriter(out).WriteTable(table)
	case "parquet":
		return parquetfile.NewWriter(out).WriteTable(table)
	case "geojson":
		fc, err := data.MapFeatureCollection(fullRange(data))
		if err != nil {
			return err
		}
		return geofile.NewWriter(out).WriteBoundaries(fc)
	default:
		return fmt.Errorf("unknown format %q (want csv, parquet, or geojson)", format)
	}
}

func fullRange(data *dataset.Dataset) domain.Filter {
	minYear, maxYear := data.YearRange()
	if minYear == 0 && maxYear == 0 {
		minYear, maxYear = math.MinInt, math.MaxInt
	}
	return domain.Filter{FromYear: minYear, ToYear: maxYear, Intentional: true, Unintentional: true}
}
