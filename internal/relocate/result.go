package relocate

import (
	"fmt"
)

type Status string

const (
	StatusCopied  Status = "copied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
	StatusPartial Status = "partial"
	StatusPlanned Status = "planned"
)

type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonNotImageLike         Reason = "NotImageLike"
	ReasonUnrecognizedFilename Reason = "UnrecognizedFilename"
	ReasonMalformedTimestamp   Reason = "MalformedTimestamp"
	ReasonAlreadyCanonical     Reason = "AlreadyCanonical"
	ReasonStoreOperationFailed Reason = "StoreOperationFailed"
	ReasonPartialRelocation    Reason = "PartialRelocation"
)

// Result is the outcome of relocating one object.
type Result struct {
	Source      string
	Destination string
	Status      Status
	Reason      Reason
	Err         error
}

// AuditValue is the destination column written to the audit CSV.
func (r Result) AuditValue() string {
	switch r.Status {
	case StatusCopied, StatusPlanned:
		return r.Destination
	case StatusSkipped:
		return string(r.Reason)
	case StatusFailed:
		return fmt.Sprintf("%s: %v", ReasonStoreOperationFailed, r.Err)
	case StatusPartial:
		return fmt.Sprintf("%s: %s: %v", ReasonPartialRelocation, r.Destination, r.Err)
	default:
		return string(r.Reason)
	}
}

func (r Result) Failed() bool {
	return r.Status == StatusFailed || r.Status == StatusPartial
}

func copied(src, dst string) Result {
	return Result{Source: src, Destination: dst, Status: StatusCopied}
}

func skipped(src string, reason Reason) Result {
	return Result{Source: src, Status: StatusSkipped, Reason: reason}
}

func planned(src, dst string) Result {
	return Result{Source: src, Destination: dst, Status: StatusPlanned}
}

func failed(src, dst string, err error) Result {
	return Result{Source: src, Destination: dst, Status: StatusFailed, Reason: ReasonStoreOperationFailed, Err: err}
}

func partial(src, dst string, err error) Result {
	return Result{Source: src, Destination: dst, Status: StatusPartial, Reason: ReasonPartialRelocation, Err: err}
}
