// Package report renders the per-port, per-process accounting table.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"firestige.xyz/netproc/internal/accounting"
	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/process"
)

// Unknown is shown for ports with no known owner.
const Unknown = "-"

// Row is one line of the process table.
type Row struct {
	Port            string `json:"port" yaml:"port"`
	PID             int32  `json:"pid" yaml:"pid"`
	Process         string `json:"process" yaml:"process"`
	SentBytes       uint64 `json:"sent_bytes" yaml:"sent_bytes"`
	ReceivedBytes   uint64 `json:"received_bytes" yaml:"received_bytes"`
	SentPackets     uint64 `json:"sent_packets" yaml:"sent_packets"`
	ReceivedPackets uint64 `json:"received_packets" yaml:"received_packets"`
}

// TotalBytes returns sent plus received bytes.
func (r Row) TotalBytes() uint64 {
	return r.SentBytes + r.ReceivedBytes
}

// Lookup resolves a port to its owning process.
type Lookup func(port string) (process.Info, bool)

// BuildRows joins an accounting snapshot with process ownership. sortBy is
// "bytes" (descending total, the snapshot order) or "port" (ascending).
func BuildRows(usage []accounting.PortUsage, lookup Lookup, sortBy string) []Row {
	rows := make([]Row, 0, len(usage))
	for _, u := range usage {
		row := Row{
			Port:            u.Port,
			Process:         Unknown,
			SentBytes:       u.SentBytes,
			ReceivedBytes:   u.ReceivedBytes,
			SentPackets:     u.SentPackets,
			ReceivedPackets: u.ReceivedPackets,
		}
		if lookup != nil {
			if info, ok := lookup(u.Port); ok {
				row.PID = info.PID
				if info.Name != "" {
					row.Process = info.Name
				}
			}
		}
		rows = append(rows, row)
	}

	if sortBy == "port" {
		sort.SliceStable(rows, func(i, j int) bool {
			a, _ := strconv.Atoi(rows[i].Port)
			b, _ := strconv.Atoi(rows[j].Port)
			return a < b
		})
	}
	return rows
}

// Reporter writes rows in one output format.
type Reporter interface {
	Render(w io.Writer, rows []Row) error
}

// New returns the reporter for format.
func New(format string) (Reporter, error) {
	switch format {
	case config.FormatTable, "":
		return tableReporter{}, nil
	case config.FormatJSON:
		return jsonReporter{}, nil
	case config.FormatYAML:
		return yamlReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Header is the column order of the table format.
var Header = []string{"Port", "PID", "Process", "Sent", "Received", "Pkts Out", "Pkts In"}

// Cells formats a row for tabular output.
func Cells(r Row) []string {
	pid := Unknown
	if r.PID > 0 {
		pid = strconv.FormatInt(int64(r.PID), 10)
	}
	return []string{
		r.Port,
		pid,
		r.Process,
		strconv.FormatUint(r.SentBytes, 10),
		strconv.FormatUint(r.ReceivedBytes, 10),
		strconv.FormatUint(r.SentPackets, 10),
		strconv.FormatUint(r.ReceivedPackets, 10),
	}
}

type tableReporter struct{}

func (tableReporter) Render(w io.Writer, rows []Row) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range rows {
		table.Append(Cells(r))
	}
	table.Render()
	return nil
}

type jsonReporter struct{}

func (jsonReporter) Render(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if rows == nil {
		rows = []Row{}
	}
	return enc.Encode(rows)
}

type yamlReporter struct{}

func (yamlReporter) Render(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if rows == nil {
		rows = []Row{}
	}
	if err := enc.Encode(rows); err != nil {
		return err
	}
	return enc.Close()
}
