package googlesheets

import (
	"context"
	"encoding/json"

	"github.com/altozano/reservasheet"
	"google.golang.org/api/option"
)

// NewOpener returns an Opener gated on the resolved configuration. It
// yields (nil, nil) — unavailable — when remote persistence is disabled,
// no spreadsheet ID is configured, or no parseable credential JSON is
// present. Credentials that parse as JSON but lack the service account
// fields, and any failure while building the API client, are hard errors.
//
// Extra client options are appended after the credential token source,
// which lets tests redirect the API endpoint.
func NewOpener(cfg reservasheet.Config, opts ...option.ClientOption) reservasheet.Opener {
	return func(ctx context.Context) (reservasheet.Backend, error) {
		if !cfg.Enabled {
			return nil, nil
		}
		if cfg.SpreadsheetID == "" {
			return nil, nil
		}
		if len(cfg.ServiceAccount) == 0 || !json.Valid(cfg.ServiceAccount) {
			return nil, nil
		}

		key, err := ParseServiceAccountKey(cfg.ServiceAccount)
		if err != nil {
			return nil, err
		}

		clientOpts := append([]option.ClientOption{option.WithTokenSource(TokenSource(ctx, key))}, opts...)
		return New(ctx, cfg.SpreadsheetID, clientOpts...)
	}
}
