package defs

import (
	"time"

	"github.com/pkg/errors"
)

// element names of the configuration document
const (
	SectionClient   = "client"
	SectionServer   = "server-config"
	SectionDownload = "download"
	SectionUpload   = "upload"
)

// ErrEmptyConfig is returned when the configuration document carried no client section
var ErrEmptyConfig = errors.New("configuration document is empty")

// ClientProfile describes the client as seen by the configuration service
type ClientProfile struct {
	IP             string
	Lat            float64
	Lon            float64
	ISP            string
	ISPRating      float64
	ISPDownloadAvg int64
	ISPUploadAvg   int64
}

func (c *ClientProfile) ParseAttributes(attrs Attributes) {
	attrs.Apply(FieldTable{
		"ip":        StringField(&c.IP),
		"lat":       FloatField(&c.Lat),
		"lon":       FloatField(&c.Lon),
		"isp":       StringField(&c.ISP),
		"isprating": FloatField(&c.ISPRating),
		"ispdlavg":  Int64Field(&c.ISPDownloadAvg),
		"ispulavg":  Int64Field(&c.ISPUploadAvg),
	})
}

// Location returns the client coordinate
func (c *ClientProfile) Location() Coordinate {
	return Coordinate{Lat: c.Lat, Lon: c.Lon}
}

// SelectionHints are the server-config recommendations applied before ranking
type SelectionHints struct {
	IgnoreIDs   map[int]struct{}
	ThreadCount int
	ForcePingID int
}

func (h *SelectionHints) ParseAttributes(attrs Attributes) {
	attrs.Apply(FieldTable{
		"ignoreids":   IDSetField(&h.IgnoreIDs),
		"threadcount": IntField(&h.ThreadCount),
		"forcepingid": IntField(&h.ForcePingID),
	})
}

// DownloadSettings is the download section of the configuration document
type DownloadSettings struct {
	TestLength    int
	InitialTest   int64
	MinTestSize   int64
	ThreadsPerURL int
}

func (d *DownloadSettings) ParseAttributes(attrs Attributes) {
	attrs.Apply(FieldTable{
		"testlength":    IntField(&d.TestLength),
		"initialtest":   SizeField(&d.InitialTest),
		"mintestsize":   SizeField(&d.MinTestSize),
		"threadsperurl": IntField(&d.ThreadsPerURL),
	})
}

// UploadTuning governs how many upload workers run and for how long
type UploadTuning struct {
	TestLength    int
	Ratio         int
	InitialTest   int64
	MinTestSize   int64
	Threads       int
	MaxChunkSize  int64
	MaxChunkCount int
	ThreadsPerURL int
}

func (u *UploadTuning) ParseAttributes(attrs Attributes) {
	attrs.Apply(FieldTable{
		"testlength":    IntField(&u.TestLength),
		"ratio":         IntField(&u.Ratio),
		"initialtest":   SizeField(&u.InitialTest),
		"mintestsize":   SizeField(&u.MinTestSize),
		"threads":       IntField(&u.Threads),
		"maxchunksize":  SizeField(&u.MaxChunkSize),
		"maxchunkcount": IntField(&u.MaxChunkCount),
		"threadsperurl": IntField(&u.ThreadsPerURL),
	})
}

// Budget is the per-worker time budget of an upload, or fallback when unset
func (u *UploadTuning) Budget(fallback time.Duration) time.Duration {
	if u.TestLength <= 0 {
		return fallback
	}
	return time.Duration(u.TestLength) * time.Second
}

// Config is the typed configuration document
type Config struct {
	Client   ClientProfile
	Hints    SelectionHints
	Download DownloadSettings
	Upload   UploadTuning
}

func (c *Config) sections() map[string]AttributeParser {
	return map[string]AttributeParser{
		SectionClient:   &c.Client,
		SectionServer:   &c.Hints,
		SectionDownload: &c.Download,
		SectionUpload:   &c.Upload,
	}
}

// ConfigFromSections builds a Config from the attribute lists keyed by element name
func ConfigFromSections(sections map[string]Attributes) (*Config, error) {
	if _, ok := sections[SectionClient]; !ok {
		return nil, ErrEmptyConfig
	}

	cfg := &Config{}
	for name, parser := range cfg.sections() {
		if attrs, ok := sections[name]; ok {
			parser.ParseAttributes(attrs)
		}
	}
	return cfg, nil
}

// SectionNames lists the elements a Config is built from
func SectionNames() []string {
	return []string{SectionClient, SectionServer, SectionDownload, SectionUpload}
}
