package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"bess-lab/internal/analysis"
	"bess-lab/internal/config"
	"bess-lab/internal/data"
	"bess-lab/internal/model"
	"bess-lab/internal/study"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "arbitrage":
		cmdArbitrage(os.Args[2:])
	case "peakshave":
		cmdPeakShave(os.Args[2:])
	case "sizing":
		cmdSizing(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli arbitrage --data prices.csv --column price --config examples/arbitrage.yaml --out results/arbitrage.csv")
	fmt.Println("  cli peakshave --data load.csv --column load --config examples/peakshave.yaml --out results/peakshave.csv")
	fmt.Println("  cli sizing    --data load.csv --column load --config examples/sizing.yaml --out results/sizing.csv")
	fmt.Println("  cli compare   --data load.csv --column load --config examples/compare.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - the data CSV needs a timestamp column plus the named value column")
	fmt.Println("  - output CSVs carry action=CHARGING/IDLE/DISCHARGING per timestep")
	fmt.Println("  - compare ranks candidate technologies by sizing total cost")
}

type commonFlags struct {
	series model.Series
	cfg    *config.Config
	out    string
}

func parseCommon(name string, args []string) commonFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to input CSV (timestamp + value columns)")
	column := fs.String("column", "", "Value column name (default: first non-timestamp column)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", fmt.Sprintf("results/%s.csv", name), "Output CSV path")
	n := fs.Int("n", 0, "Optional: limit to first N timesteps (0=all)")
	_ = fs.Parse(args)

	if *dataPath == "" || *cfgPath == "" {
		fmt.Println("--data and --config are required")
		os.Exit(2)
	}

	series, err := data.LoadSeriesCSV(*dataPath, *column)
	if err != nil {
		panic(err)
	}
	if *n > 0 && *n < len(series.Values) {
		series.Timestamps = series.Timestamps[:*n]
		series.Values = series.Values[:*n]
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	return commonFlags{series: series, cfg: cfg, out: *outPath}
}

func cmdArbitrage(args []string) {
	f := parseCommon("arbitrage", args)
	outcome, err := study.RunArbitrage(f.series, f.cfg.Storage.ToModelSpec())
	if err != nil {
		panic(err)
	}
	writeRows(f.out, "price_per_mwh", outcome.Rows)
	fmt.Printf("Objective (net energy cost)=$%.2f over %d steps\n", outcome.Objective, len(outcome.Rows))
}

func cmdPeakShave(args []string) {
	f := parseCommon("peakshave", args)
	outcome, err := study.RunPeakShaving(f.series, f.cfg.Storage.ToModelSpec(), f.cfg.Tariff.ToModelTariff())
	if err != nil {
		panic(err)
	}
	writeRows(f.out, "load_mw", outcome.Rows)
	fmt.Printf("Objective=$%.2f Peak=%.3f MW over %d steps\n", outcome.Objective, outcome.PeakMW, len(outcome.Rows))
}

func cmdSizing(args []string) {
	f := parseCommon("sizing", args)
	outcome, err := study.RunSizing(
		f.series,
		f.cfg.Storage.ToModelSpec(),
		f.cfg.Sizing.ToModelCosts(),
		f.cfg.Tariff.ToModelTariff(),
	)
	if err != nil {
		panic(err)
	}
	writeRows(f.out, "load_mw", outcome.Rows)
	fmt.Printf("Objective=$%.2f Capacity=%.3f MWh Rating=%.3f MW Peak=%.3f MW\n",
		outcome.Objective, outcome.CapacityMWh, outcome.PowerRatingMW, outcome.PeakMW)
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to load CSV")
	column := fs.String("column", "", "Value column name")
	cfgPath := fs.String("config", "", "Path to YAML config listing technologies")
	_ = fs.Parse(args)

	if *dataPath == "" || *cfgPath == "" {
		fmt.Println("--data and --config are required")
		os.Exit(2)
	}

	series, err := data.LoadSeriesCSV(*dataPath, *column)
	if err != nil {
		panic(err)
	}
	cfg, err := config.LoadCompare(*cfgPath)
	if err != nil {
		panic(err)
	}

	techs := make([]analysis.Technology, len(cfg.Technologies))
	for i, t := range cfg.Technologies {
		techs[i] = analysis.Technology{
			Name:                t.Name,
			ChargeEfficiency:    t.ChargeEfficiency,
			DischargeEfficiency: t.DischargeEfficiency,
			MinSOC:              t.MinSOC,
			MaxSOC:              t.MaxSOC,
			InitialSOC:          t.InitialSOC,
			CapacityCostPerMWh:  t.CapacityCostPerMWh,
			PowerCostPerMW:      t.PowerCostPerMW,
		}
	}
	ranked, err := analysis.CompareTechnologies(series, cfg.Tariff.ToModelTariff(), techs)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-4s %-18s %-14s %-14s %-10s %-12s\n", "rank", "technology", "capacity_mwh", "rating_mw", "peak_mw", "total$")
	for i, r := range ranked {
		fmt.Printf("%-4d %-18s %-14.3f %-14.3f %-10.3f %-12.2f\n",
			i+1, r.Name, r.CapacityMWh, r.PowerRatingMW, r.PeakMW, r.TotalCost)
	}
}

func writeRows(out, inputHeader string, rows []study.Row) {
	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		panic(err)
	}
	if err := study.WriteRowsCSV(out, inputHeader, rows); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), out)
}
