// reservasync pushes the local reservation CSV datasets to Google Sheets
// in full-replace mode, with an optional mirror into a local workbook.
//
// Usage:
//
//	export USE_GOOGLE_SHEETS=true
//	export GOOGLE_SHEETS_SPREADSHEET_ID=...
//	export GOOGLE_SERVICE_ACCOUNT_JSON='{"type":"service_account",...}'
//	reservasync [--web reservas_web_2026.csv] [--hist reservas_2026_full.csv]
//
// Exit codes: 0 both sheets synced, 1 precondition failure (sheets
// disabled or a CSV missing), 2 one or both writes failed.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/altozano/reservasheet"
	"github.com/altozano/reservasheet/adapters/excel"
	"github.com/altozano/reservasheet/adapters/googlesheets"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("reservasync", pflag.ContinueOnError)
	webPath := flags.String("web", "reservas_web_2026.csv", "path to the live web bookings CSV")
	histPath := flags.String("hist", "reservas_2026_full.csv", "path to the historical bookings CSV")
	secretsPath := flags.String("secrets", "", "optional YAML secrets file")
	workbookPath := flags.String("workbook", "", "optional local .xlsx mirror")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	secrets := reservasheet.Secrets{}
	if *secretsPath != "" {
		var err error
		secrets, err = reservasheet.LoadSecrets(*secretsPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	cfg := reservasheet.Resolve(os.Getenv, secrets)
	if !cfg.Enabled {
		fmt.Println("Google Sheets is not enabled. Set USE_GOOGLE_SHEETS=true.")
		return 1
	}

	for _, path := range []string{*histPath, *webPath} {
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("Local CSV %s not found.\n", path)
			return 1
		}
	}

	fmt.Println("Reading local historical CSV...")
	hist, err := readCSVTable(*histPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Historical: %d rows\n", len(hist.Rows))

	fmt.Println("Reading local web CSV...")
	web, err := readCSVTable(*webPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Web: %d rows\n", len(web.Rows))

	ctx := context.Background()
	client := reservasheet.New(googlesheets.NewOpener(cfg))

	fmt.Println("Writing historical sheet...")
	okHist := writeSheet(ctx, client, reservasheet.SheetReservasHist, hist)
	fmt.Printf("Historical synced: %v\n", okHist)

	fmt.Println("Writing web sheet...")
	okWeb := writeSheet(ctx, client, reservasheet.SheetReservasWeb, web)
	fmt.Printf("Web synced: %v\n", okWeb)

	if *workbookPath != "" {
		mirror := reservasheet.New(excel.NewOpener(*workbookPath))
		fmt.Printf("Mirroring to workbook %s...\n", *workbookPath)
		okMirror := writeSheet(ctx, mirror, reservasheet.SheetReservasHist, hist) &&
			writeSheet(ctx, mirror, reservasheet.SheetReservasWeb, web)
		if !okMirror {
			fmt.Println("Workbook mirror incomplete.")
		}
	}

	if okHist && okWeb {
		fmt.Println("Sync complete.")
		return 0
	}
	fmt.Println("Sync incomplete. Check credentials and permissions.")
	return 2
}

func writeSheet(ctx context.Context, client *reservasheet.Client, title string, t reservasheet.Table) bool {
	ok, err := client.WriteTable(ctx, title, t, t.Columns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", title, err)
		return false
	}
	return ok
}
