package report

import (
	"github.com/ztelliot/stest-cli/defs"
)

// RecordSink consumes the records of a run in trial order
type RecordSink interface {
	WriteRecords(records []defs.TestRecord) error
}
