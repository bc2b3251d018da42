package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/opensearch-devops/osb-ci/service/storage"
	"github.com/opensearch-devops/osb-ci/shared/trends"
	"github.com/spf13/pflag"
)

func runStorageCommand(cmd string, args []string) error {
	switch cmd {
	case "db":
		return runDBCommand(args)
	case "history":
		return runHistoryCommand(args)
	case "dashboard":
		return runDashboardCommand(args)
	default:
		return fmt.Errorf("unsupported command: %s", cmd)
	}
}

func runDBCommand(args []string) error {
	fs := pflag.NewFlagSet("db", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	olderThan := fs.Int("older-than", 30, "Purge runs older than N days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: osb-ci db <vacuum|reindex|purge> [--db-path ...]")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "vacuum":
		return store.Vacuum(context.Background())
	case "reindex":
		return store.Reindex(context.Background())
	case "purge":
		count, err := store.PurgeOlderThan(context.Background(), *olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d runs\n", count)
		return nil
	default:
		return fmt.Errorf("unsupported db command: %s", sub)
	}
}

func runHistoryCommand(args []string) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	pipeline := fs.String("pipeline", "", "Pipeline name filter (build, release, or test)")
	limit := fs.Int("limit", 20, "Number of rows to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: osb-ci history <list|show>")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "list":
		runs, err := store.GetRecentRuns(*pipeline, *limit)
		if err != nil {
			return err
		}
		trends.RenderHistoryTable(runs)
		return nil
	case "show":
		if len(rest) < 2 {
			return fmt.Errorf("usage: osb-ci history show <run-id>")
		}
		runID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return err
		}
		steps, err := store.ListSteps(runID)
		if err != nil {
			return err
		}
		trends.RenderStepTable(steps)
		return nil
	default:
		return fmt.Errorf("unsupported history command: %s", sub)
	}
}

func runDashboardCommand(args []string) error {
	fs := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	port := fs.Int("port", 8080, "Dashboard HTTP port")
	pipeline := fs.String("pipeline", "", "Pipeline name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(dashboardHTML))
	})
	mux.HandleFunc("/api/trends", func(w http.ResponseWriter, _ *http.Request) {
		points, err := store.GetTrends(*pipeline, 30)
		writeJSON(w, points, err)
	})
	mux.HandleFunc("/api/runs", func(w http.ResponseWriter, _ *http.Request) {
		runs, err := store.GetRecentRuns(*pipeline, 50)
		writeJSON(w, runs, err)
	})
	mux.HandleFunc("/api/steps", func(w http.ResponseWriter, r *http.Request) {
		runIDStr := r.URL.Query().Get("run_id")
		if runIDStr == "" {
			http.Error(w, "run_id is required", http.StatusBadRequest)
			return
		}
		runID, err := strconv.ParseInt(runIDStr, 10, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		steps, err := store.ListSteps(runID)
		writeJSON(w, steps, err)
	})

	addr := fmt.Sprintf(":%d", *port)
	fmt.Printf("Dashboard running on http://localhost%s\n", addr)
	err = http.ListenAndServe(addr, mux)
	_ = store.Close()
	return err
}

type trendOptions struct {
	Pipeline   string
	TrendDays  int
	Compare    bool
	ExportJSON string
	ExportCSV  string
}

func runTrendWorkflow(store storage.Service, opts trendOptions) error {
	if store == nil {
		return fmt.Errorf("--trends requires initialized storage")
	}

	points, err := store.GetTrends(opts.Pipeline, opts.TrendDays)
	if err != nil {
		return err
	}
	trends.RenderTrendTable(points)

	if opts.Compare {
		runs, err := store.GetRecentRuns(opts.Pipeline, 2)
		if err == nil && len(runs) >= 2 {
			cmp, err := store.GetRunComparison(runs[1].RunID, runs[0].RunID)
			if err == nil {
				trends.RenderComparisonTable(cmp)
			}
		}
	}

	if strings.TrimSpace(opts.ExportJSON) != "" {
		b, err := json.MarshalIndent(points, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.ExportJSON, b, 0o644); err != nil {
			return err
		}
	}
	if strings.TrimSpace(opts.ExportCSV) != "" {
		f, err := os.Create(opts.ExportCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		w := csv.NewWriter(f)
		defer w.Flush()
		_ = w.Write([]string{"pipeline", "date", "runs", "passed", "failed", "pass_rate", "avg_duration_ms"})
		for _, p := range points {
			_ = w.Write([]string{
				p.Pipeline, p.Date, strconv.Itoa(p.Runs), strconv.Itoa(p.Passed), strconv.Itoa(p.Failed),
				strconv.FormatFloat(p.PassRate, 'f', 1, 64), strconv.FormatInt(p.AvgDurationMS, 10),
			})
		}
	}

	return nil
}

func writeJSON(w http.ResponseWriter, v any, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>osb-ci dashboard</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <style>
    body { font-family: sans-serif; margin: 24px; color: #1f2937; }
    h1 { margin: 0 0 12px; }
    .meta { margin-bottom: 16px; color: #6b7280; }
    .panel { border: 1px solid #e5e7eb; border-radius: 10px; padding: 16px; margin-bottom: 16px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #e5e7eb; padding: 8px; text-align: left; }
    th { background: #f9fafb; }
    .error { color: #b91c1c; white-space: pre-wrap; }
  </style>
</head>
<body>
  <h1>OSB CI Dashboard</h1>
  <div class="meta">Source: <code>/api/trends</code></div>
  <div class="panel">
    <canvas id="trend" height="80"></canvas>
    <div id="chart-status"></div>
  </div>
  <div class="panel">
    <h3>Pass Rate by Day</h3>
    <div id="table-wrap">Loading...</div>
  </div>
  <script>
    const tableWrap = document.getElementById('table-wrap');
    const chartStatus = document.getElementById('chart-status');

    function renderTable(rows) {
      if (!rows || rows.length === 0) {
        tableWrap.innerHTML = '<em>No trend data found.</em>';
        return;
      }
      let html = '<table><thead><tr><th>Pipeline</th><th>Date</th><th>Runs</th><th>Passed</th><th>Failed</th><th>Pass Rate</th></tr></thead><tbody>';
      for (const r of rows) {
        html += '<tr>' +
          '<td>' + (r.pipeline || '-') + '</td>' +
          '<td>' + r.date + '</td>' +
          '<td>' + r.runs + '</td>' +
          '<td>' + r.passed + '</td>' +
          '<td>' + r.failed + '</td>' +
          '<td>' + r.pass_rate.toFixed(1) + '%</td>' +
          '</tr>';
      }
      html += '</tbody></table>';
      tableWrap.innerHTML = html;
    }

    fetch('/api/trends')
      .then(r => {
        if (!r.ok) throw new Error('HTTP ' + r.status);
        return r.json();
      })
      .then(rows => {
        renderTable(rows);
        if (!rows || rows.length === 0) return;
        if (typeof Chart !== 'function') {
          chartStatus.innerHTML = '<div class="error">Chart.js failed to load; showing table fallback.</div>';
          return;
        }
        const labels = rows.map(x => (x.pipeline ? (x.pipeline + ' ') : '') + x.date);
        const vals = rows.map(x => x.pass_rate);
        new Chart(document.getElementById('trend'), {
          type: 'line',
          data: { labels: labels, datasets: [{ label: 'Pass Rate %', data: vals, borderColor: '#005a8a' }] },
          options: {
            responsive: true,
            plugins: {
              legend: { display: true }
            },
            scales: {
              x: {
                title: {
                  display: true,
                  text: 'Pipeline + Date'
                }
              },
              y: {
                title: {
                  display: true,
                  text: 'Pass Rate %'
                },
                beginAtZero: true,
                max: 100
              }
            }
          }
        });
      })
      .catch(err => {
        tableWrap.innerHTML = '<div class="error">Failed to load trend data: ' + err.message + '</div>';
        chartStatus.innerHTML = '<div class="error">Chart not rendered.</div>';
      });
  </script>
</body>
</html>`
