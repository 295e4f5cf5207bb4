// Package core defines sentinel errors and the per-frame problem taxonomy.
package core

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. A *Problem unwraps to exactly one of the first four.
var (
	// Per-frame dissection problems
	ErrTruncatedHeader   = errors.New("netproc: truncated header")
	ErrInvalidHeader     = errors.New("netproc: invalid header")
	ErrNegativePayload   = errors.New("netproc: negative payload length")
	ErrUnhandledProtocol = errors.New("netproc: unhandled protocol")

	// Collaborator errors
	ErrIdentityUnresolved = errors.New("netproc: local identity unresolved")
	ErrSourceUnsupported  = errors.New("netproc: capture source unsupported on this platform")
	ErrNotEthernet        = errors.New("netproc: capture link type is not ethernet")
	ErrCaptureTimeout     = errors.New("netproc: capture read timed out")

	// Configuration errors
	ErrConfigInvalid = errors.New("netproc: invalid configuration")
)

// Reason classifies a per-frame problem.
type Reason uint8

const (
	ReasonTruncatedHeader Reason = iota + 1
	ReasonInvalidHeader
	ReasonNegativePayload
	ReasonUnhandledProtocol
)

func (r Reason) String() string {
	switch r {
	case ReasonTruncatedHeader:
		return "truncated_header"
	case ReasonInvalidHeader:
		return "invalid_header"
	case ReasonNegativePayload:
		return "negative_payload"
	case ReasonUnhandledProtocol:
		return "unhandled_protocol"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(r))
	}
}

// Problem is a non-fatal issue with a single frame.
// Subject is the layer, field or protocol name the reason refers to.
type Problem struct {
	Reason    Reason
	Subject   string
	Value     int       // offending value when there is one (header length, payload length)
	Timestamp time.Time // set when the problem is reported
}

// TruncatedHeader reports that fewer bytes were captured than layer requires.
func TruncatedHeader(layer string) *Problem {
	return &Problem{Reason: ReasonTruncatedHeader, Subject: layer}
}

// InvalidHeader reports a structurally invalid header field.
func InvalidHeader(field string, value int) *Problem {
	return &Problem{Reason: ReasonInvalidHeader, Subject: field, Value: value}
}

// NegativePayload reports a TCP payload length computed below zero.
func NegativePayload(length int) *Problem {
	return &Problem{Reason: ReasonNegativePayload, Subject: "TCP payload", Value: length}
}

// UnhandledProtocol marks a frame whose transport is outside the accounting domain.
func UnhandledProtocol(name string) *Problem {
	return &Problem{Reason: ReasonUnhandledProtocol, Subject: name}
}

func (p *Problem) Error() string {
	switch p.Reason {
	case ReasonTruncatedHeader:
		return fmt.Sprintf("packet is truncated and lacks a full %s", p.Subject)
	case ReasonInvalidHeader:
		return fmt.Sprintf("invalid %s: %d bytes", p.Subject, p.Value)
	case ReasonNegativePayload:
		return fmt.Sprintf("negative %s length: %d bytes", p.Subject, p.Value)
	case ReasonUnhandledProtocol:
		return fmt.Sprintf("protocol: %s", p.Subject)
	default:
		return "unknown problem"
	}
}

func (p *Problem) Unwrap() error {
	switch p.Reason {
	case ReasonTruncatedHeader:
		return ErrTruncatedHeader
	case ReasonInvalidHeader:
		return ErrInvalidHeader
	case ReasonNegativePayload:
		return ErrNegativePayload
	case ReasonUnhandledProtocol:
		return ErrUnhandledProtocol
	default:
		return nil
	}
}

// Informational reports whether the problem is not a defect of the frame.
func (p *Problem) Informational() bool {
	return p.Reason == ReasonUnhandledProtocol
}

// At returns a copy of p stamped with the frame timestamp.
func (p *Problem) At(ts time.Time) *Problem {
	cp := *p
	cp.Timestamp = ts
	return &cp
}
