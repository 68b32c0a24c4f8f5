package application

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportDateLayout renders order dates in the day-first locale layout.
const ExportDateLayout = "02.01.2006, 15:04:05"

// ExportLabels holds the display text used by ExportOrdersCSV.
type ExportLabels struct {
	Header   []string
	Types    map[OrderType]string
	Statuses map[OrderStatus]string
	Location *time.Location
}

// DefaultExportLabels returns English labels rendered in UTC.
func DefaultExportLabels() ExportLabels {
	return ExportLabels{
		Header: []string{"ID", "User", "Type", "Description", "Date", "Status"},
		Types: map[OrderType]string{
			OrderTypeElectrician: "Electrician",
			OrderTypePlumber:     "Plumber",
			OrderTypeHandyman:    "Handyman",
			OrderTypeCarpenter:   "Carpenter",
			OrderTypeOther:       "Other",
		},
		Statuses: map[OrderStatus]string{
			OrderStatusOpen:     "Open",
			OrderStatusClosed:   "Closed",
			OrderStatusCanceled: "Canceled",
		},
		Location: time.UTC,
	}
}

// ExportOrdersCSV writes orders as comma separated text. The header row is
// written as given; every row field is double quoted with embedded quotes
// doubled. Rows are separated by a single newline with none after the last.
func ExportOrdersCSV(w io.Writer, orders []Order, labels ExportLabels) error {
	loc := labels.Location
	if loc == nil {
		loc = time.UTC
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(labels.Header, ",")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, o := range orders {
		typeLabel, ok := labels.Types[o.Type]
		if !ok {
			typeLabel = string(o.Type)
		}
		statusLabel, ok := labels.Statuses[o.Status]
		if !ok {
			statusLabel = string(o.Status)
		}
		fields := []string{
			o.ID,
			o.UserID,
			typeLabel,
			o.Description,
			o.Date.In(loc).Format(ExportDateLayout),
			statusLabel,
		}
		for i, f := range fields {
			fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		if _, err := bw.WriteString("\n" + strings.Join(fields, ",")); err != nil {
			return fmt.Errorf("write order %s: %w", o.ID, err)
		}
	}
	return bw.Flush()
}
