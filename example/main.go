package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/altozano/reservasheet"
	"github.com/altozano/reservasheet/adapters/googlesheets"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Resolve configuration from the environment and an optional secrets
	// file (USE_GOOGLE_SHEETS, GOOGLE_SHEETS_SPREADSHEET_ID,
	// GOOGLE_SERVICE_ACCOUNT_JSON / gcp_service_account).
	secrets, err := reservasheet.LoadSecrets("secrets.yaml")
	if err != nil {
		return err
	}
	cfg := reservasheet.Resolve(os.Getenv, secrets)

	client := reservasheet.New(googlesheets.NewOpener(cfg))

	// Insert or update a reservation keyed by ID_RESERVA.
	ok, err := client.Upsert(ctx, reservasheet.SheetReservasWeb, reservasheet.Record{
		"ID_RESERVA": "R-2026-0001",
		"NAME":       "Jo Garcia",
		"PHONE":      "555-0101",
	}, "", nil)
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	if !ok {
		fmt.Println("remote persistence unavailable, nothing written")
		return nil
	}

	// Patch a single field, leaving the rest of the row untouched.
	if _, err := client.UpdateFields(ctx, reservasheet.SheetReservasWeb, "R-2026-0001", reservasheet.Record{
		"PHONE": "555-0202",
	}, ""); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	// Read the sheet back as a table.
	table, err := client.ReadTable(ctx, reservasheet.SheetReservasWeb, []string{"ID_RESERVA", "NAME", "PHONE"})
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	for _, row := range table.Rows {
		fmt.Printf("%s: %s (%s)\n", row["ID_RESERVA"], row["NAME"], row["PHONE"])
	}

	return nil
}
