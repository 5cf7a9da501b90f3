package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tpdash/tprules/internal/api"
	"github.com/tpdash/tprules/internal/compile"
	"github.com/tpdash/tprules/internal/config"
	"github.com/tpdash/tprules/internal/domain"
	"github.com/tpdash/tprules/internal/ingest"
	"github.com/tpdash/tprules/internal/store"
)

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "tprules",
		Short: "Compile transfer pricing rule tables into a dashboard dataset",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "snapshot database path (default ~/.tprules/tprules.db)")

	rootCmd.AddCommand(compileCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = cfg.DB.Path
	}
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".tprules", "tprules.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(path)
}

func compileCmd() *cobra.Command {
	var excelPath, outPath, fye string
	var debug, save bool

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the rules workbook into rules.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("excel") && cfg.Compile.ExcelPath != "" {
				excelPath = cfg.Compile.ExcelPath
			}
			if !cmd.Flags().Changed("out") {
				outPath = cfg.Compile.OutputPath
			}
			if !cmd.Flags().Changed("fye") {
				fye = cfg.Compile.FYE
			}
			if !cmd.Flags().Changed("debug") {
				debug = cfg.Compile.Debug
			}
			if excelPath == "" {
				return fmt.Errorf("no workbook given: use --excel or set TPRULES_EXCEL")
			}

			in, err := ingest.Load(excelPath)
			if err != nil {
				return err
			}

			doc, diags, err := compile.Compile(in, compile.Options{FYE: fye, Debug: debug})
			if err != nil {
				return fmt.Errorf("compile failed: %w", err)
			}

			if err := writeDocument(outPath, doc); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d countries)\n", outPath, len(doc.Countries))

			if debug {
				printDiagnostics(diags)
			}

			if save {
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()

				snap, err := st.SaveDocument(doc)
				if err != nil {
					return err
				}
				fmt.Printf("Recorded snapshot %s\n", snap.ID[:8])
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&excelPath, "excel", "", "path to the rules workbook")
	cmd.Flags().StringVar(&outPath, "out", "rules.json", "path to write the compiled document")
	cmd.Flags().StringVar(&fye, "fye", "", "fiscal year-end (YYYY-MM-DD) for relative deadlines")
	cmd.Flags().BoolVar(&debug, "debug", false, "print diagnostics")
	cmd.Flags().BoolVar(&save, "save", false, "record the run in the snapshot database")
	return cmd
}

func writeDocument(path string, doc *domain.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func printDiagnostics(d *compile.Diagnostics) {
	for _, w := range d.Warnings {
		fmt.Printf("[warn] %s\n", w)
	}
	if len(d.Unmatched) > 0 {
		fmt.Printf("[warn] jurisdictions not matched to country mapping: %s\n", strings.Join(d.Unmatched, ", "))
	}
	if len(d.MissingRegion) > 0 {
		fmt.Printf("[warn] no region mapping for: %s\n", strings.Join(d.MissingRegion, ", "))
	}
}

func serveCmd() *cobra.Command {
	var addr, staticDir, rulesPath string
	var open bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiled rules and dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("static") {
				staticDir = cfg.Server.StaticDir
			}
			if !cmd.Flags().Changed("open") {
				open = cfg.Server.OpenBrowser
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			// No defer st.Close(): the server runs indefinitely.

			if open {
				// Give the listener a moment before pointing a browser at it.
				url := browseURL(addr)
				time.AfterFunc(1500*time.Millisecond, func() { openBrowser(url) })
			}

			server := api.New(st, addr, staticDir, rulesPath)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:5500", "server address")
	cmd.Flags().StringVar(&staticDir, "static", ".", "dashboard directory to serve at /")
	cmd.Flags().StringVar(&rulesPath, "rules", "rules.json", "compiled document served when no snapshot exists")
	cmd.Flags().BoolVar(&open, "open", false, "open the dashboard in the default browser")
	return cmd
}

func browseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		fmt.Printf("(couldn't open browser: %v)\n", err)
	}
}

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded compile snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			snaps, err := st.ListSnapshots(limit, 0)
			if err != nil {
				return err
			}

			if len(snaps) == 0 {
				fmt.Println("No snapshots yet. Use 'tprules compile --save' to record one.")
				return nil
			}

			for _, sn := range snaps {
				fmt.Printf("%s  %s  %s (%d countries, fye=%s)\n",
					sn.ID[:8], sn.CreatedAt.Format("2006-01-02 15:04"), sn.ExcelSource, sn.Countries, orDash(sn.FYE))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of snapshots to show")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one snapshot's compiled countries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			// Find snapshot by prefix
			snaps, err := st.ListSnapshots(100, 0)
			if err != nil {
				return err
			}

			var found string
			for _, sn := range snaps {
				if strings.HasPrefix(sn.ID, args[0]) {
					found = sn.ID
					break
				}
			}
			if found == "" {
				return fmt.Errorf("snapshot not found: %s", args[0])
			}

			snap, raw, err := st.GetSnapshot(found)
			if err != nil {
				return err
			}

			var doc domain.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("decode document: %w", err)
			}

			fmt.Printf("ID:        %s\n", snap.ID)
			fmt.Printf("Recorded:  %s\n", snap.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("Source:    %s\n", snap.ExcelSource)
			fmt.Printf("FYE:       %s\n", orDash(snap.FYE))
			fmt.Printf("Countries: %d\n", snap.Countries)

			for _, c := range doc.Countries {
				region := c.Region
				if region == "" {
					region = "-"
				}
				fmt.Printf("  %-10s %s\n", region, c.Name)
			}
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
