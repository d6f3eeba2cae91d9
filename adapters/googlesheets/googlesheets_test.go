package googlesheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"google.golang.org/api/option"
)

// recordedCall captures one API request for assertions.
type recordedCall struct {
	method string
	path   string
	query  url.Values
	body   map[string]interface{}
}

func newTestBackend(t *testing.T, handler func(call recordedCall, w http.ResponseWriter)) (*Backend, *[]recordedCall) {
	t.Helper()

	calls := &[]recordedCall{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
		}
		if r.Body != nil {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				call.body = body
			}
		}
		*calls = append(*calls, call)
		w.Header().Set("Content-Type", "application/json")
		handler(call, w)
	}))
	t.Cleanup(server.Close)

	backend, err := New(context.Background(), "test-id",
		option.WithEndpoint(server.URL), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	return backend, calls
}

func TestBackend_ReadAll(t *testing.T) {
	tests := []struct {
		name      string
		sheetData string
		want      [][]string
		wantErr   bool
	}{
		{
			name: "rows with typed cells",
			sheetData: `{
				"values": [
					["ID_RESERVA", "NAME", "PAID"],
					["A1", "Jo", true],
					["A2", 30, false]
				]
			}`,
			want: [][]string{
				{"ID_RESERVA", "NAME", "PAID"},
				{"A1", "Jo", "TRUE"},
				{"A2", "30", "FALSE"},
			},
		},
		{
			name:      "empty sheet",
			sheetData: `{"values": []}`,
			want:      [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, _ := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
				if call.path == "/v4/spreadsheets/test-id/values/TestSheet!A:ZZ" {
					w.Write([]byte(tt.sheetData))
				} else {
					w.WriteHeader(404)
				}
			})

			got, err := backend.ReadAll(context.Background(), "TestSheet")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadAll() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackend_EnsureSheet(t *testing.T) {
	metadata := func(titles ...string) string {
		type props struct {
			Title string `json:"title"`
		}
		type sheet struct {
			Properties props `json:"properties"`
		}
		var sheets []sheet
		for _, title := range titles {
			sheets = append(sheets, sheet{props{title}})
		}
		data, _ := json.Marshal(map[string]interface{}{"sheets": sheets})
		return string(data)
	}

	t.Run("existing sheet with populated header is untouched", func(t *testing.T) {
		backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
			switch call.path {
			case "/v4/spreadsheets/test-id":
				w.Write([]byte(metadata("TestSheet")))
			case "/v4/spreadsheets/test-id/values/TestSheet!1:1":
				w.Write([]byte(`{"values": [["ID_RESERVA", "NAME"]]}`))
			default:
				w.WriteHeader(404)
			}
		})

		if err := backend.EnsureSheet(context.Background(), "TestSheet", []string{"ID_RESERVA", "NAME"}); err != nil {
			t.Fatalf("EnsureSheet() error = %v", err)
		}

		for _, call := range *calls {
			if call.method == "PUT" || call.method == "POST" {
				t.Errorf("unexpected write call %s %s", call.method, call.path)
			}
		}
	})

	t.Run("existing sheet with empty first row gets header", func(t *testing.T) {
		backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
			switch call.path {
			case "/v4/spreadsheets/test-id":
				w.Write([]byte(metadata("TestSheet")))
			case "/v4/spreadsheets/test-id/values/TestSheet!1:1":
				if call.method == "GET" {
					w.Write([]byte(`{}`))
				} else {
					w.WriteHeader(404)
				}
			case "/v4/spreadsheets/test-id/values/TestSheet!A1":
				w.Write([]byte(`{}`))
			default:
				w.WriteHeader(404)
			}
		})

		if err := backend.EnsureSheet(context.Background(), "TestSheet", []string{"ID_RESERVA", "NAME"}); err != nil {
			t.Fatalf("EnsureSheet() error = %v", err)
		}

		var update *recordedCall
		for i, call := range *calls {
			if call.method == "PUT" {
				update = &(*calls)[i]
			}
		}
		if update == nil {
			t.Fatal("expected a header update call")
		}
		want := []interface{}{[]interface{}{"ID_RESERVA", "NAME"}}
		if !reflect.DeepEqual(update.body["values"], want) {
			t.Errorf("header update body = %v, want %v", update.body["values"], want)
		}
	})

	t.Run("missing sheet is created with minimum grid", func(t *testing.T) {
		backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
			switch call.path {
			case "/v4/spreadsheets/test-id":
				w.Write([]byte(metadata("Other")))
			case "/v4/spreadsheets/test-id:batchUpdate":
				w.Write([]byte(`{}`))
			case "/v4/spreadsheets/test-id/values/TestSheet!1:1":
				w.Write([]byte(`{}`))
			case "/v4/spreadsheets/test-id/values/TestSheet!A1":
				w.Write([]byte(`{}`))
			default:
				w.WriteHeader(404)
			}
		})

		if err := backend.EnsureSheet(context.Background(), "TestSheet", []string{"ID_RESERVA", "NAME"}); err != nil {
			t.Fatalf("EnsureSheet() error = %v", err)
		}

		var added map[string]interface{}
		for _, call := range *calls {
			if call.path == "/v4/spreadsheets/test-id:batchUpdate" {
				added = call.body
			}
		}
		if added == nil {
			t.Fatal("expected a batchUpdate call")
		}

		requests := added["requests"].([]interface{})
		addSheet := requests[0].(map[string]interface{})["addSheet"].(map[string]interface{})
		properties := addSheet["properties"].(map[string]interface{})
		if properties["title"] != "TestSheet" {
			t.Errorf("addSheet title = %v, want TestSheet", properties["title"])
		}
		grid := properties["gridProperties"].(map[string]interface{})
		if grid["rowCount"] != float64(1000) {
			t.Errorf("rowCount = %v, want 1000", grid["rowCount"])
		}
		if grid["columnCount"] != float64(26) {
			t.Errorf("columnCount = %v, want 26", grid["columnCount"])
		}
	})

	t.Run("wide schema expands the column count", func(t *testing.T) {
		headers := make([]string, 30)
		for i := range headers {
			headers[i] = columnName(i + 1)
		}

		backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
			switch call.path {
			case "/v4/spreadsheets/test-id":
				w.Write([]byte(metadata()))
			case "/v4/spreadsheets/test-id:batchUpdate",
				"/v4/spreadsheets/test-id/values/TestSheet!1:1",
				"/v4/spreadsheets/test-id/values/TestSheet!A1":
				w.Write([]byte(`{}`))
			default:
				w.WriteHeader(404)
			}
		})

		if err := backend.EnsureSheet(context.Background(), "TestSheet", headers); err != nil {
			t.Fatalf("EnsureSheet() error = %v", err)
		}

		for _, call := range *calls {
			if call.path != "/v4/spreadsheets/test-id:batchUpdate" {
				continue
			}
			requests := call.body["requests"].([]interface{})
			addSheet := requests[0].(map[string]interface{})["addSheet"].(map[string]interface{})
			grid := addSheet["properties"].(map[string]interface{})["gridProperties"].(map[string]interface{})
			if grid["columnCount"] != float64(30) {
				t.Errorf("columnCount = %v, want 30", grid["columnCount"])
			}
		}
	})

	t.Run("no headers checks existence only", func(t *testing.T) {
		backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
			if call.path == "/v4/spreadsheets/test-id" {
				w.Write([]byte(metadata("TestSheet")))
			} else {
				w.WriteHeader(404)
			}
		})

		if err := backend.EnsureSheet(context.Background(), "TestSheet", nil); err != nil {
			t.Fatalf("EnsureSheet() error = %v", err)
		}
		if len(*calls) != 1 {
			t.Errorf("made %d calls, want 1 (metadata only)", len(*calls))
		}
	})
}

func TestBackend_ClearAndWrite(t *testing.T) {
	backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
		w.Write([]byte(`{}`))
	})

	rows := [][]string{{"ID_RESERVA", "NAME"}, {"A1", "Jo"}}
	if err := backend.ClearAndWrite(context.Background(), "TestSheet", rows); err != nil {
		t.Fatalf("ClearAndWrite() error = %v", err)
	}

	if len(*calls) != 2 {
		t.Fatalf("made %d calls, want 2 (clear + update)", len(*calls))
	}
	if (*calls)[0].path != "/v4/spreadsheets/test-id/values/TestSheet!A:ZZ:clear" {
		t.Errorf("first call = %s, want clear", (*calls)[0].path)
	}

	update := (*calls)[1]
	if update.path != "/v4/spreadsheets/test-id/values/TestSheet!A1" {
		t.Errorf("second call = %s, want update at A1", update.path)
	}
	want := []interface{}{
		[]interface{}{"ID_RESERVA", "NAME"},
		[]interface{}{"A1", "Jo"},
	}
	if !reflect.DeepEqual(update.body["values"], want) {
		t.Errorf("update body = %v, want %v", update.body["values"], want)
	}
}

func TestBackend_ClearAndWriteEmpty(t *testing.T) {
	backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
		w.Write([]byte(`{}`))
	})

	if err := backend.ClearAndWrite(context.Background(), "TestSheet", nil); err != nil {
		t.Fatalf("ClearAndWrite() error = %v", err)
	}
	if len(*calls) != 1 {
		t.Errorf("made %d calls, want 1 (clear only)", len(*calls))
	}
}

func TestBackend_AppendRows(t *testing.T) {
	backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
		w.Write([]byte(`{}`))
	})

	if err := backend.AppendRows(context.Background(), "TestSheet", nil); err != nil {
		t.Fatalf("AppendRows(empty) error = %v", err)
	}
	if len(*calls) != 0 {
		t.Errorf("empty append made %d calls, want 0", len(*calls))
	}

	rows := [][]string{{"A3", "Lee"}}
	if err := backend.AppendRows(context.Background(), "TestSheet", rows); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}

	if len(*calls) != 1 {
		t.Fatalf("made %d calls, want 1", len(*calls))
	}
	call := (*calls)[0]
	if call.path != "/v4/spreadsheets/test-id/values/TestSheet!A1:append" {
		t.Errorf("call path = %s, want append", call.path)
	}
	want := []interface{}{[]interface{}{"A3", "Lee"}}
	if !reflect.DeepEqual(call.body["values"], want) {
		t.Errorf("append body = %v, want %v", call.body["values"], want)
	}
}

func TestBackend_ReadColumn(t *testing.T) {
	tests := []struct {
		name     string
		col      int
		wantPath string
		response string
		want     []string
	}{
		{
			name:     "key column",
			col:      1,
			wantPath: "/v4/spreadsheets/test-id/values/TestSheet!A:A",
			response: `{"values": [["ID_RESERVA", "A1", "A2"]]}`,
			want:     []string{"ID_RESERVA", "A1", "A2"},
		},
		{
			name:     "second column",
			col:      2,
			wantPath: "/v4/spreadsheets/test-id/values/TestSheet!B:B",
			response: `{"values": [["NAME", "Jo"]]}`,
			want:     []string{"NAME", "Jo"},
		},
		{
			name:     "empty column",
			col:      3,
			wantPath: "/v4/spreadsheets/test-id/values/TestSheet!C:C",
			response: `{}`,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
				if call.path == tt.wantPath {
					w.Write([]byte(tt.response))
				} else {
					w.WriteHeader(404)
				}
			})

			got, err := backend.ReadColumn(context.Background(), "TestSheet", tt.col)
			if err != nil {
				t.Fatalf("ReadColumn() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadColumn() = %v, want %v", got, tt.want)
			}

			for _, call := range *calls {
				if got := call.query.Get("majorDimension"); got != "COLUMNS" {
					t.Errorf("majorDimension = %q, want COLUMNS", got)
				}
			}
		})
	}
}

func TestBackend_ReadRow(t *testing.T) {
	backend, _ := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
		if call.path == "/v4/spreadsheets/test-id/values/TestSheet!2:2" {
			w.Write([]byte(`{"values": [["A1", "Jo"]]}`))
		} else {
			w.WriteHeader(404)
		}
	})

	got, err := backend.ReadRow(context.Background(), "TestSheet", 2)
	if err != nil {
		t.Fatalf("ReadRow() error = %v", err)
	}
	if want := []string{"A1", "Jo"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadRow() = %v, want %v", got, want)
	}
}

func TestBackend_WriteRow(t *testing.T) {
	backend, calls := newTestBackend(t, func(call recordedCall, w http.ResponseWriter) {
		w.Write([]byte(`{}`))
	})

	if err := backend.WriteRow(context.Background(), "TestSheet", 3, []string{"A2", "Anna"}); err != nil {
		t.Fatalf("WriteRow() error = %v", err)
	}

	if len(*calls) != 1 {
		t.Fatalf("made %d calls, want 1", len(*calls))
	}
	call := (*calls)[0]
	if call.path != "/v4/spreadsheets/test-id/values/TestSheet!A3" {
		t.Errorf("call path = %s, want row update at A3", call.path)
	}
	want := []interface{}{[]interface{}{"A2", "Anna"}}
	if !reflect.DeepEqual(call.body["values"], want) {
		t.Errorf("body = %v, want %v", call.body["values"], want)
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
	}

	for _, tt := range tests {
		if got := columnName(tt.col); got != tt.want {
			t.Errorf("columnName(%d) = %s, want %s", tt.col, got, tt.want)
		}
	}
}
