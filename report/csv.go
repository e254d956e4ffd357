package report

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/ztelliot/stest-cli/defs"
)

// CSVFile writes a header row and one row per record to a file
type CSVFile struct {
	Path      string
	Delimiter rune
}

// FileName returns Path with a ".csv" extension appended when missing
func (c *CSVFile) FileName() string {
	if strings.HasSuffix(c.Path, ".csv") {
		return c.Path
	}
	return c.Path + ".csv"
}

func (c *CSVFile) WriteRecords(records []defs.TestRecord) error {
	f, err := os.Create(c.FileName())
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", c.FileName())
	}
	defer f.Close()

	if err := WriteCSV(f, c.Delimiter, records); err != nil {
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close %s", c.FileName())
}

// WriteCSV writes the header and records to w using delim as the field separator
func WriteCSV(w io.Writer, delim rune, records []defs.TestRecord) error {
	if delim == 0 {
		delim = ','
	}
	cw := csv.NewWriter(w)
	cw.Comma = delim

	if err := gocsv.MarshalCSV(&records, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return errors.Wrap(err, "failed to generate CSV report")
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to write CSV report")
}
