package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Content is the payload a scheduled report hands to a notification channel.
// Every field is optional; an absent field omits its section of the email.
type Content struct {
	Name         string      `json:"name"`
	Text         string      `json:"text,omitempty"`
	Description  string      `json:"description,omitempty"`
	EmbeddedData *Table      `json:"embedded_data,omitempty"`
	Screenshots  [][]byte    `json:"screenshots,omitempty"`
	CSV          []byte      `json:"csv,omitempty"`
	HeaderData   *HeaderData `json:"header_data,omitempty"`
}

// HeaderData is report metadata carried into the email headers and logs.
type HeaderData struct {
	NotificationFormat string `json:"notification_format,omitempty"`
	NotificationType   string `json:"notification_type,omitempty"`
	NotificationSource string `json:"notification_source,omitempty"`
	ChartID            *int   `json:"chart_id,omitempty"`
	DashboardID        *int   `json:"dashboard_id,omitempty"`
	Owners             []int  `json:"owners,omitempty"`
	ExecutionID        string `json:"execution_id,omitempty"`
}

// Headers returns the metadata as X- message headers. Empty fields are skipped.
func (h *HeaderData) Headers() map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string)
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("X-Notification-Format", h.NotificationFormat)
	set("X-Notification-Type", h.NotificationType)
	set("X-Notification-Source", h.NotificationSource)
	set("X-Execution-ID", h.ExecutionID)
	if h.ChartID != nil {
		out["X-Chart-ID"] = strconv.Itoa(*h.ChartID)
	}
	if h.DashboardID != nil {
		out["X-Dashboard-ID"] = strconv.Itoa(*h.DashboardID)
	}
	if len(h.Owners) > 0 {
		owners := make([]string, len(h.Owners))
		for i, o := range h.Owners {
			owners[i] = strconv.Itoa(o)
		}
		out["X-Owners"] = strings.Join(owners, ",")
	}
	return out
}

// Table is embedded tabular data in split orientation. A nil cell renders
// empty.
type Table struct {
	Columns []string
	Index   []string
	Rows    [][]*string
}

type tableJSON struct {
	Columns []any   `json:"columns"`
	Index   []any   `json:"index,omitempty"`
	Data    [][]any `json:"data"`
}

// UnmarshalJSON accepts {"columns": [...], "index": [...], "data": [[...]]}
// with scalar values of any JSON type.
func (t *Table) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw tableJSON
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	t.Columns = stringify(raw.Columns)
	t.Index = stringify(raw.Index)
	t.Rows = make([][]*string, len(raw.Data))
	for i, row := range raw.Data {
		cells := make([]*string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			s := fmt.Sprint(v)
			cells[j] = &s
		}
		t.Rows[i] = cells
	}
	return nil
}

func (t Table) MarshalJSON() ([]byte, error) {
	raw := tableJSON{Columns: anys(t.Columns), Index: anys(t.Index), Data: make([][]any, len(t.Rows))}
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, c := range row {
			if c != nil {
				cells[j] = *c
			}
		}
		raw.Data[i] = cells
	}
	return json.Marshal(raw)
}

func stringify(vs []any) []string {
	if vs == nil {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		if v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func anys(ss []string) []any {
	if ss == nil {
		return nil
	}
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// InlineImage is a screenshot referenced from the body as cid:<ContentID>.
type InlineImage struct {
	ContentID string
	Data      []byte
}

// EmailContent is a rendered report email, ready for a Transport.
type EmailContent struct {
	Body       string
	HeaderData *HeaderData
	Data       map[string][]byte
	Images     []InlineImage
}
