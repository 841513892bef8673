// cmd/tools/batch-score/main.go
//
// batch-score evaluates a CSV of project intakes and prints the decision
// for each row. By default it scores locally with the built-in engine;
// with -server it posts each intake to a running decision server instead,
// so the same CSV can exercise a deployed instance.
//
// Usage:
//
//	go run ./cmd/tools/batch-score -input data/sample_projects.csv
//	go run ./cmd/tools/batch-score -input data/sample_projects.csv -server http://localhost:8080
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	httpclient "decision-assistant/internal/common/http"
	"decision-assistant/internal/engine"
	"decision-assistant/internal/intake"
	"decision-assistant/internal/models"
)

func main() {
	inputPath := flag.String("input", "data/sample_projects.csv", "CSV file of project intakes")
	serverURL := flag.String("server", "", "base URL of a running decision server; empty scores locally")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout when using -server")
	flag.Parse()

	f, err := os.Open(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	intakes, rowErrs, err := readIntakes(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read csv: %v\n", err)
		os.Exit(1)
	}
	for _, re := range rowErrs {
		fmt.Fprintf(os.Stderr, "row %d skipped: %v\n", re.row, re.err)
	}

	eng := engine.NewDefault()
	var client *httpclient.Client
	if *serverURL != "" {
		client = httpclient.NewClient(*timeout)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tDECISION\tSCORE\tTOP RATIONALE")

	failed := false
	for _, p := range intakes {
		var out *models.DecisionOutput
		if client != nil {
			out, err = scoreRemote(context.Background(), client, *serverURL, p)
		} else {
			out = eng.Evaluate(p)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p.ProjectName, err)
			failed = true
			continue
		}

		top := ""
		if len(out.Rationale) > 0 {
			top = out.Rationale[0]
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ProjectName, out.Decision, out.Score, top)
	}
	w.Flush()

	if failed {
		os.Exit(1)
	}
}

type rowError struct {
	row int
	err error
}

// readIntakes parses the CSV, validating each row the same way the
// API does. Invalid rows are reported and skipped rather than aborting
// the whole batch.
func readIntakes(r io.Reader) ([]*models.ProjectIntake, []rowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	required := []string{
		"projectName", "objective", "teamSize", "durationWeeks", "estimatedCostUsd",
		"customerImpact", "strategicAlignment", "technicalComplexity",
		"deliveryRisk", "complianceRisk", "dependenciesCount", "hasExecSponsor",
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}

	var (
		intakes []*models.ProjectIntake
		rowErrs []rowError
	)
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", row, err)
		}

		p, err := parseRow(record, col)
		if err == nil {
			if vr := intake.ValidateIntake(p); !vr.Valid {
				err = vr
			}
		}
		if err != nil {
			rowErrs = append(rowErrs, rowError{row: row, err: err})
			continue
		}
		intakes = append(intakes, p)
	}
	return intakes, rowErrs, nil
}

func parseRow(record []string, col map[string]int) (*models.ProjectIntake, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	intField := func(name string) (int, error) {
		v, err := strconv.Atoi(field(name))
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, err)
		}
		return v, nil
	}

	p := &models.ProjectIntake{
		ProjectName: field("projectName"),
		Objective:   field("objective"),
		Notes:       field("notes"),
	}

	var err error
	for _, bind := range []struct {
		name string
		dst  *int
	}{
		{"teamSize", &p.TeamSize},
		{"durationWeeks", &p.DurationWeeks},
		{"estimatedCostUsd", &p.EstimatedCostUSD},
		{"customerImpact", &p.CustomerImpact},
		{"strategicAlignment", &p.StrategicAlignment},
		{"technicalComplexity", &p.TechnicalComplexity},
		{"deliveryRisk", &p.DeliveryRisk},
		{"complianceRisk", &p.ComplianceRisk},
		{"dependenciesCount", &p.DependenciesCount},
	} {
		if *bind.dst, err = intField(bind.name); err != nil {
			return nil, err
		}
	}

	p.HasExecSponsor, err = strconv.ParseBool(field("hasExecSponsor"))
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", "hasExecSponsor", err)
	}
	return p, nil
}

// scoreRemote posts the intake to a running server and decodes the
// stored decision record.
func scoreRemote(ctx context.Context, client *httpclient.Client, baseURL string, p *models.ProjectIntake) (*models.DecisionOutput, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(baseURL, "/")+"/api/v1/decisions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.DoWithContext(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var rec models.DecisionRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &rec.Output, nil
}
