package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags a server error with the orchestration-relevant category.
// Classification happens here, at the transport boundary; orchestration
// code switches on the tag and never inspects message text.
type Kind string

const (
	KindFundsInsufficient Kind = "funds_insufficient"
	KindLimitExceeded     Kind = "limit_exceeded"
	KindContainerFull     Kind = "container_full"
	KindOther             Kind = "other"
)

// Error codes the server is known to emit. Free-text matching below is a
// compatibility shim for server builds that reply with code 0.
const (
	codeFundsInsufficient = 4101
	codeLimitExceeded     = 4102
	codeContainerFull     = 4205
)

type Error struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
	}
	return "server error: " + e.Message
}

func newServerError(code int, msg string) *Error {
	return &Error{Kind: classify(code, msg), Code: code, Message: msg}
}

func classify(code int, msg string) Kind {
	switch code {
	case codeFundsInsufficient:
		return KindFundsInsufficient
	case codeLimitExceeded:
		return KindLimitExceeded
	case codeContainerFull:
		return KindContainerFull
	}
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "not enough coupon"), strings.Contains(lower, "insufficient"):
		return KindFundsInsufficient
	case strings.Contains(lower, "purchase limit"), strings.Contains(lower, "limit reached"):
		return KindLimitExceeded
	case strings.Contains(lower, "container is full"), strings.Contains(lower, "already full"):
		return KindContainerFull
	}
	return KindOther
}

// KindOf returns the tagged kind of err, or KindOther for anything that is
// not a classified server error (network failures, timeouts).
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOther
}

// IsContainerFull reports whether err signals the target container cannot
// accept more fill.
func IsContainerFull(err error) bool {
	return KindOf(err) == KindContainerFull
}
