package defs

import (
	"fmt"
	"net/url"
)

// Server represents a speed test server from the catalog
type Server struct {
	ID          int     `json:"id"`
	URL         string  `json:"url"`
	AltURL      string  `json:"url2"`
	Host        string  `json:"host"`
	Name        string  `json:"name"`
	Sponsor     string  `json:"sponsor"`
	Country     string  `json:"country"`
	CountryCode string  `json:"cc"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// ParseAttributes fills the server from a catalog <server> element
func (s *Server) ParseAttributes(attrs Attributes) {
	attrs.Apply(FieldTable{
		"id":      IntField(&s.ID),
		"url":     StringField(&s.URL),
		"url2":    StringField(&s.AltURL),
		"host":    StringField(&s.Host),
		"name":    StringField(&s.Name),
		"sponsor": StringField(&s.Sponsor),
		"country": StringField(&s.Country),
		"cc":      StringField(&s.CountryCode),
		"lat":     FloatField(&s.Lat),
		"lon":     FloatField(&s.Lon),
	})
}

// Location returns the server coordinate
func (s *Server) Location() Coordinate {
	return Coordinate{Lat: s.Lat, Lon: s.Lon}
}

// BaseHost returns the host (with port, if any) the server's transfer URL points at,
// falling back to the catalog host attribute
func (s *Server) BaseHost() string {
	if u, err := url.Parse(s.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return s.Host
}

// Hostname is BaseHost without the port
func (s *Server) Hostname() string {
	if u, err := url.Parse("http://" + s.BaseHost()); err == nil {
		return u.Hostname()
	}
	return s.BaseHost()
}

// LatencyURL is the lightweight resource fetched by the latency probe
func (s *Server) LatencyURL() string {
	return fmt.Sprintf("http://%s/speedtest/latency.txt", s.BaseHost())
}

// DownloadURL builds a cache-busted URL for a random image of the given edge length
func (s *Server) DownloadURL(dimension int, stamp int64, n int) string {
	return fmt.Sprintf("http://%s/speedtest/random%dx%d.jpg?x=%d.%d", s.BaseHost(), dimension, dimension, stamp, n)
}

func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) [%s] (id = %d)", s.Name, s.Country, s.BaseHost(), s.ID)
}
