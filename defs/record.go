package defs

import (
	"time"
)

// Transfer is the aggregated outcome of one download or upload run
type Transfer struct {
	Start   time.Time
	End     time.Time
	Bytes   uint64
	Elapsed time.Duration
	Mbps    float64
}

// Millis returns the elapsed wall clock in whole milliseconds
func (t Transfer) Millis() int64 {
	return t.Elapsed.Milliseconds()
}

// TestRecord is one trial row, fields are in output column order
type TestRecord struct {
	TestNumber int       `json:"test_number" csv:"test_number"`
	ServerURL  string    `json:"server_url" csv:"server_url"`
	RxStart    time.Time `json:"rx_start" csv:"rx_start"`
	RxBytes    uint64    `json:"rx_total_bytes" csv:"rx_total_bytes"`
	RxMillis   int64     `json:"rx_total_millis" csv:"rx_total_millis"`
	RxMbps     float64   `json:"rx_speed_mbps" csv:"rx_speed_mbps"`
	RxEnd      time.Time `json:"rx_end" csv:"rx_end"`
	TxStart    time.Time `json:"tx_start" csv:"tx_start"`
	TxBytes    uint64    `json:"tx_total_bytes" csv:"tx_total_bytes"`
	TxMillis   int64     `json:"tx_total_millis" csv:"tx_total_millis"`
	TxMbps     float64   `json:"tx_speed_mbps" csv:"tx_speed_mbps"`
	TxEnd      time.Time `json:"tx_end" csv:"tx_end"`
}

// NewTestRecord builds the row for trial n from its download and upload outcomes
func NewTestRecord(n int, serverURL string, rx, tx Transfer) TestRecord {
	return TestRecord{
		TestNumber: n,
		ServerURL:  serverURL,
		RxStart:    rx.Start,
		RxBytes:    rx.Bytes,
		RxMillis:   rx.Millis(),
		RxMbps:     rx.Mbps,
		RxEnd:      rx.End,
		TxStart:    tx.Start,
		TxBytes:    tx.Bytes,
		TxMillis:   tx.Millis(),
		TxMbps:     tx.Mbps,
		TxEnd:      tx.End,
	}
}
