// Package timeutil pins all business timestamps to Indian Standard Time.
// Bill dates, payment times and invoice headers are always rendered in IST
// regardless of the server's local zone.
package timeutil

import "time"

var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// No tzdata on the host, fall back to a fixed UTC+5:30 zone.
		IST = time.FixedZone("IST", 5*3600+30*60)
	}
}

// Now returns the current wall clock time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// FormatIST formats t in IST using the given layout.
func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}

// Layouts used on invoices and in API responses.
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02 Jan 2006, 03:04 PM"
)
