// Command genmock writes synthetic geothermal source fixtures in the three
// upstream formats: the BHT well CSV (also copied as the well-only source),
// the heat-flow CSV and the gravity station text file. It re-reads what it wrote through the domain parsers
// and fusion so the summary it prints matches what the service will load.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -wells 500 -stations 800 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Fixture file names, matching the service's default source locations.
const (
	bhtFile      = "SMU_BHT.csv"
	wellFile     = "BHT_Data.csv"
	heatFlowFile = "heat_flow.csv"
	gravityFile  = "gravity.txt"
)

var bhtHeader = []string{
	"latitude", "longitude", "bhtcorrected_temp", "depth", "state",
	"operation_name", "field_name", "formation",
	"drilling_start", "drilling_complete", "company_name",
}

var (
	formations = []string{"Austin Chalk", "Eagle Ford", "Wilcox", "Haynesville", "Frio", "Prudhoe"}
	companies  = []string{"Permian Drilling", "Gulf Basin Energy", "North Slope Operating", "Lone Star Resources"}
	regionName = map[string]string{"TX": "Texas", "LA": "Louisiana", "AK": "Alaska"}
)

// regionCodes is RegionCoordinates' keys in a fixed order so a seed always
// produces the same files.
var regionCodes = func() []string {
	codes := make([]string, 0, len(domain.RegionCoordinates))
	for code := range domain.RegionCoordinates {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}()

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "directory to write fixtures into")
	wells := flag.Int("wells", 500, "number of BHT well rows")
	stations := flag.Int("stations", 800, "number of gravity station lines")
	flows := flag.Int("heat-flow", 60, "number of heat-flow rows")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *wells < 0 || *stations < 0 || *flows < 0 {
		return fmt.Errorf("row counts must not be negative")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	if err := writeBHT(filepath.Join(*outDir, bhtFile), rng, *wells); err != nil {
		return fmt.Errorf("writing %s: %w", bhtFile, err)
	}
	if err := copyFile(filepath.Join(*outDir, bhtFile), filepath.Join(*outDir, wellFile)); err != nil {
		return fmt.Errorf("writing %s: %w", wellFile, err)
	}
	if err := writeHeatFlow(filepath.Join(*outDir, heatFlowFile), rng, *flows); err != nil {
		return fmt.Errorf("writing %s: %w", heatFlowFile, err)
	}
	if err := writeGravity(filepath.Join(*outDir, gravityFile), rng, *stations); err != nil {
		return fmt.Errorf("writing %s: %w", gravityFile, err)
	}
	log.Printf("wrote fixtures to %s", *outDir)

	// Fixed clock for a reproducible generatedAt in the summary.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	return summarize(*outDir)
}

// writeBHT scatters wells around the region anchors. The first well of each
// region sits exactly on its anchor so heat flow has something to join to;
// every twentieth row has no coordinates.
func writeBHT(path string, rng *rand.Rand, n int) error {
	return writeCSV(path, bhtHeader, n, func(i int) []string {
		code := regionCodes[i%len(regionCodes)]
		anchor := domain.RegionCoordinates[code]

		lat, lon := anchor.Lat, anchor.Lon
		if i >= len(regionCodes) {
			lat += rng.NormFloat64() * 1.5
			lon += rng.NormFloat64() * 1.5
		}
		latCell, lonCell := formatFloat(lat, 4), formatFloat(lon, 4)
		if i > 0 && i%20 == 0 {
			latCell, lonCell = "", ""
		}

		depth := 500 + rng.Float64()*5500
		temp := 15 + depth*0.025 + rng.NormFloat64()*8
		start := time.Date(1960+rng.IntN(60), time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC)
		complete := start.AddDate(0, 0, 10+rng.IntN(120))

		return []string{
			latCell,
			lonCell,
			formatFloat(temp, 1),
			formatFloat(depth, 0),
			regionName[code],
			fmt.Sprintf("%s #%d", code, i+1),
			fmt.Sprintf("%s Field %d", regionName[code], 1+rng.IntN(12)),
			formations[rng.IntN(len(formations))],
			start.Format("2006-01-02"),
			complete.Format("2006-01-02"),
			companies[rng.IntN(len(companies))],
		}
	})
}

// writeHeatFlow emits IDs of the form "<region>-<n>". One in ten rows uses
// an unmapped region so the fusion drop path shows up in diagnostics.
func writeHeatFlow(path string, rng *rand.Rand, n int) error {
	return writeCSV(path, []string{"ID", "CO HF (mW/m2)"}, n, func(i int) []string {
		code := regionCodes[i%len(regionCodes)]
		if i%10 == 9 {
			code = "ZZ"
		}
		return []string{
			fmt.Sprintf("%s-%03d", code, i+1),
			formatFloat(40+rng.Float64()*80, 1),
		}
	})
}

// writeGravity writes whitespace-separated station lines. The first line of
// each region lands on its anchor, producing complete locations.
func writeGravity(path string, rng *rand.Rand, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i := range n {
		code := regionCodes[i%len(regionCodes)]
		anchor := domain.RegionCoordinates[code]
		lat, lon := anchor.Lat, anchor.Lon
		if i >= len(regionCodes) {
			lat += rng.NormFloat64() * 2
			lon += rng.NormFloat64() * 2
		}

		elevation := rng.Float64() * 1200
		observed := 979000 + rng.Float64()*800
		inner := rng.Float64() * 0.5
		outer := rng.Float64() * 2
		freeAir := rng.NormFloat64() * 25
		bouguer := freeAir - 0.1119*elevation + rng.NormFloat64()*5

		if _, err := fmt.Fprintf(f, "%10.4f %9.4f %8.1f %10.2f %6.2f %6.2f %8.2f %8.2f\n",
			lon, lat, elevation, observed, inner, outer, freeAir, bouguer); err != nil {
			return err
		}
	}
	return f.Close()
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range n {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// copyFile duplicates the BHT fixture for the well-only source, which reads
// the same format.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// summarize loads the fixtures back through the service's parsers and
// fusion and prints what the service would serve.
func summarize(dir string) error {
	wells, err := parseFile(filepath.Join(dir, bhtFile), domain.ParseBHT)
	if err != nil {
		return err
	}
	flows, err := parseFile(filepath.Join(dir, heatFlowFile), domain.ParseHeatFlow)
	if err != nil {
		return err
	}
	stations, err := parseFile(filepath.Join(dir, gravityFile), domain.ParseGravity)
	if err != nil {
		return err
	}

	ds, err := domain.BuildDataset(wells, flows, stations, logSink{})
	if err != nil {
		return fmt.Errorf("fusing fixtures: %w", err)
	}

	fmt.Printf("\n=== Fixture Summary ===\n")
	fmt.Printf("Wells: %d  Heat flow: %d  Gravity stations: %d\n", len(wells), len(flows), len(stations))
	fmt.Printf("Fused locations: %d (complete: %d)\n", len(ds.Locations), len(ds.Complete))
	for _, d := range domain.Dimensions {
		r := ds.Stats.For(d)
		fmt.Printf("  %-12s min=%9.2f max=%9.2f\n", d, r.Min, r.Max)
	}

	summary := domain.SummarizeWells(wells)
	fmt.Printf("Wells at 143C: %d (mean depth %.0f m), %d on map\n",
		summary.Statistics.WellsAt143CCount, summary.Statistics.MeanDepthAt143C, len(summary.GeoData))

	gravity := domain.SummarizeGravity(stations)
	fmt.Printf("Positive Bouguer anomalies: %d of %d (%.2f%%)\n",
		gravity.Statistics.PositiveAnomalyCount, gravity.Statistics.TotalStations,
		gravity.Statistics.PositiveAnomalyPercentage)

	ranked := domain.RankLocations(ds.Locations, domain.DefaultWeights, ds.Stats, 0)
	fmt.Printf("\n=== Top Sites (default weights) ===\n")
	for i := range min(5, len(ranked)) {
		s := ranked[i]
		fmt.Printf("  %d. %s dims=%d score=%.3f\n", i+1, s.Key, s.CountPresent(), s.Score)
	}
	return nil
}

func parseFile[T any](path string, parse func(r io.Reader, sink domain.DiagnosticSink) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := parse(f, logSink{})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return recs, nil
}

// logSink prints diagnostics with the standard logger.
type logSink struct{}

func (logSink) Report(d domain.Diagnostic) {
	log.Printf("%s/%s: accepted=%d rejected=%d", d.Source, d.Stage, d.Accepted, d.Rejected)
}
