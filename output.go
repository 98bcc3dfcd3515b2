package stopwatch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
)

// dumpHeader lists the dump columns in order. The last four are derived
// fields and appear on a row only once every region has closed.
var dumpHeader = []string{
	"label", "seconds", "minutes",
	"rel_percent", "cumul_sec", "cumul_min", "cumul_percent",
}

// String renders the completed regions as an aligned, comma-separated
// block, one row per region in result order.
func (s *Stopwatch) String() string {
	b := strings.Builder{}
	for i, h := range dumpHeader {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%13s", h)
	}
	b.WriteString("\n")
	for _, sl := range s.slots {
		if sl.open {
			continue
		}
		fmt.Fprintf(&b, "%13s, %13.6f, %13.6f", sl.sample.Label, sl.sample.Seconds(), sl.sample.Minutes())
		if bd := sl.breakdown; bd != nil {
			fmt.Fprintf(&b, ", %13.4f, %13.6f, %13.6f, %13.4f",
				bd.RelativePercent, bd.CumulativeSeconds, bd.CumulativeMinutes, bd.CumulativePercent)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTo writes the dump in its compact form, without the alignment
// padding, to w.
func (s *Stopwatch) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.compactDump())
	return int64(n), err
}

func (s *Stopwatch) compactDump() string {
	b := strings.Builder{}
	b.WriteString(strings.Join(dumpHeader, ","))
	b.WriteString("\n")
	for _, sl := range s.slots {
		if sl.open {
			continue
		}
		fmt.Fprintf(&b, "%s,%.6f,%.6f", sl.sample.Label, sl.sample.Seconds(), sl.sample.Minutes())
		if bd := sl.breakdown; bd != nil {
			fmt.Fprintf(&b, ",%.4f,%.6f,%.6f,%.4f",
				bd.RelativePercent, bd.CumulativeSeconds, bd.CumulativeMinutes, bd.CumulativePercent)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ToFile writes the compact dump to a file, truncating it first. An empty
// name derives the filename from the stopwatch name, appending ".txt"
// unless the name already carries an extension.
func (s *Stopwatch) ToFile(name string) error {
	return s.writeFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// AppendToFile writes the compact dump to the end of a file, creating it if
// needed. The filename defaults as in ToFile.
func (s *Stopwatch) AppendToFile(name string) error {
	return s.writeFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

func (s *Stopwatch) writeFile(name string, flag int) error {
	if name == "" {
		name = s.name
		if !strings.Contains(name, ".") {
			name += ".txt"
		}
	}
	f, err := s.fs.OpenFile(name, flag, 0o644)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Table renders the completed regions as a console table.
func (s *Stopwatch) Table() string {
	b := &strings.Builder{}
	table := tablewriter.NewWriter(b)
	table.Header("Label", "Seconds", "Minutes", "Rel %", "Cumul Sec", "Cumul Min", "Cumul %")
	for _, sl := range s.slots {
		if sl.open {
			continue
		}
		row := []string{
			sl.sample.Label,
			fmt.Sprintf("%.6f", sl.sample.Seconds()),
			fmt.Sprintf("%.6f", sl.sample.Minutes()),
			"", "", "", "",
		}
		if bd := sl.breakdown; bd != nil {
			row[3] = fmt.Sprintf("%.2f", 100*bd.RelativePercent)
			row[4] = fmt.Sprintf("%.6f", bd.CumulativeSeconds)
			row[5] = fmt.Sprintf("%.6f", bd.CumulativeMinutes)
			row[6] = fmt.Sprintf("%.2f", 100*bd.CumulativePercent)
		}
		table.Append(row)
	}
	table.Render()
	return b.String()
}

// Fs returns the filesystem the dump files are written through.
func (s *Stopwatch) Fs() afero.Fs {
	return s.fs
}
