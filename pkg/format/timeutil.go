package format

import (
	"time"
)

// Brasilia is the Brasília time location (UTC-3).
var Brasilia *time.Location

func init() {
	var err error
	Brasilia, err = time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Fallback: fixed zone if tz database is not available
		Brasilia = time.FixedZone("BRT", -3*60*60)
	}
}

// NowBrasilia returns the current time in Brasília time.
func NowBrasilia() time.Time {
	return time.Now().In(Brasilia)
}

// ToBrasilia converts a time.Time to Brasília time.
func ToBrasilia(t time.Time) time.Time {
	return t.In(Brasilia)
}

// FormatDateBR formats a time.Time to "02/01/2006" in Brasília time.
func FormatDateBR(t time.Time) string {
	return t.In(Brasilia).Format("02/01/2006")
}

// FormatDateTimeBR formats a time.Time to "02/01/2006 15:04" in Brasília time.
func FormatDateTimeBR(t time.Time) string {
	return t.In(Brasilia).Format("02/01/2006 15:04")
}

// Timestamp returns a filesystem-safe timestamp (yyyymmdd_hhmmss) in
// Brasília time, used for date-stamped report filenames.
func Timestamp() string {
	return NowBrasilia().Format("20060102_150405")
}
