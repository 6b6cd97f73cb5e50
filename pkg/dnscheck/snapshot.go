package dnscheck

import "time"

// Record statuses. Anything else is a short diagnostic describing a record
// that is present but wrong (counted as a warning in summaries).
const (
	StatusOK      = "OK"
	StatusMissing = "Missing"
)

// Result is the outcome of validating a single record kind.
type Result struct {
	// Status is StatusOK, StatusMissing, or a short description of the fault
	// (e.g. "Invalid", "Multiple SPF records").
	Status string `json:"status"`

	// Error explains what was found versus expected. Empty when Status is OK.
	Error string `json:"error,omitempty"`
}

// OK reports whether the record matched its expectation.
func (r Result) OK() bool { return r.Status == StatusOK }

// Missing reports whether no usable record was found, including lookups that
// failed outright.
func (r Result) Missing() bool { return r.Status == StatusMissing || r.Status == "" }

// Warning reports a record that is present but does not match.
func (r Result) Warning() bool { return !r.OK() && !r.Missing() }

// Snapshot is one complete health-check run over all four record kinds. The
// four results and the timestamp always move together; partial snapshots are
// never produced.
type Snapshot struct {
	SPF        Result
	DKIM       Result
	ReturnPath Result
	MX         Result
	CheckedAt  time.Time
}

// Result returns the result for the given kind.
func (s Snapshot) Result(kind Kind) Result {
	switch kind {
	case KindSPF:
		return s.SPF
	case KindDKIM:
		return s.DKIM
	case KindReturnPath:
		return s.ReturnPath
	case KindMX:
		return s.MX
	}
	return Result{}
}

// AllOK reports whether every tracked record matched.
func (s Snapshot) AllOK() bool {
	for _, kind := range Kinds {
		if !s.Result(kind).OK() {
			return false
		}
	}
	return true
}

// Summary aggregates a snapshot into the counts shown to domain owners.
// SPF and DKIM are required for outbound deliverability; Return-Path and MX
// are optional (no DMARC alignment, no inbound mail).
type Summary struct {
	TotalRecords    int `json:"total_records"`
	RequiredRecords int `json:"required_records"`
	OptionalRecords int `json:"optional_records"`
	OKCount         int `json:"ok_count"`
	WarningCount    int `json:"warning_count"`
	MissingCount    int `json:"missing_count"`
}

// Summarize computes the summary counts for a snapshot.
func (s Snapshot) Summarize() Summary {
	sum := Summary{
		TotalRecords:    len(Kinds),
		RequiredRecords: 2,
		OptionalRecords: 2,
	}
	for _, kind := range Kinds {
		r := s.Result(kind)
		switch {
		case r.OK():
			sum.OKCount++
		case r.Missing():
			sum.MissingCount++
		default:
			sum.WarningCount++
		}
	}
	return sum
}
