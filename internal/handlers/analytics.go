package handlers

import "strings"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
}

// NewAnalytics trims the measurement id; a blank id disables the snippet.
func NewAnalytics(ga4MeasurementID string) Analytics {
	return Analytics{GA4MeasurementID: strings.TrimSpace(ga4MeasurementID)}
}

// Enabled reports whether any tag should be emitted.
func (a Analytics) Enabled() bool {
	return a.GA4MeasurementID != ""
}
