package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/ztelliot/stest-cli/defs"
)

// JSONReport represents the output data fields in a JSON file
type JSONReport struct {
	Timestamp time.Time         `json:"timestamp"`
	Server    Server            `json:"server"`
	Client    Client            `json:"client"`
	Ping      float64           `json:"ping"`
	Results   []defs.TestRecord `json:"results"`
}

// Server represents the speed test server's information
type Server struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sponsor string `json:"sponsor"`
	Country string `json:"country"`
	Host    string `json:"host"`
}

// Client represents the client's information as reported by the configuration service
type Client struct {
	IP  string  `json:"ip"`
	ISP string  `json:"isp"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// JSONWriter writes the records wrapped in a JSONReport
type JSONWriter struct {
	out    io.Writer
	report JSONReport
}

// NewJSONWriter prepares a report; cfg may be nil when the run stopped early
func NewJSONWriter(out io.Writer, cfg *defs.Config, server defs.Server, ping float64) *JSONWriter {
	rep := JSONReport{
		Ping: ping,
		Server: Server{
			ID:      server.ID,
			Name:    server.Name,
			Sponsor: server.Sponsor,
			Country: server.Country,
			Host:    server.BaseHost(),
		},
	}
	if cfg != nil {
		rep.Client = Client{IP: cfg.Client.IP, ISP: cfg.Client.ISP, Lat: cfg.Client.Lat, Lon: cfg.Client.Lon}
	}
	return &JSONWriter{out: out, report: rep}
}

func (j *JSONWriter) WriteRecords(records []defs.TestRecord) error {
	j.report.Timestamp = time.Now()
	j.report.Results = records
	if j.report.Results == nil {
		j.report.Results = []defs.TestRecord{}
	}

	b, err := json.Marshal(&j.report)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON report")
	}
	_, err = j.out.Write(append(b, '\n'))
	return errors.Wrap(err, "failed to write JSON report")
}
