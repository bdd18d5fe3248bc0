/*
 * errors.go, part of biofiles.
 *
 * Copyright 2025 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package biofiles

import "fmt"

// Kind classifies the errors of this library. Every error returned by
// biofiles and its subpackages carries exactly one Kind.
type Kind int

const (
	//KTruncatedInput means the input ended in the middle of a record or
	//of a fixed-size payload.
	KTruncatedInput Kind = iota + 1
	//KMalformedRecord means a record was complete but one of its fields
	//could not be parsed, or violated the record's contract.
	KMalformedRecord
	//KInvalidHeader means the file-level header was wrong: bad magic,
	//unsupported mode/version, or impossible dimensions.
	KInvalidHeader
	//KDanglingReference means a record referred, by serial number, to
	//another record that is not present.
	KDanglingReference
	//KInvalidTopology means the records are individually fine but can't
	//form a consistent structure (duplicate serials, self bonds...).
	KInvalidTopology
	//KOutOfBounds means a query fell outside the sampled region.
	KOutOfBounds
)

func (k Kind) String() string {
	switch k {
	case KTruncatedInput:
		return "truncated input"
	case KMalformedRecord:
		return "malformed record"
	case KInvalidHeader:
		return "invalid header"
	case KDanglingReference:
		return "dangling reference"
	case KInvalidTopology:
		return "invalid topology"
	case KOutOfBounds:
		return "out of bounds"
	}
	return "unclassified"
}

// Error is the interface for errors of the biofiles library. Aside from
// the standard error interface it classifies the error and can be
// decorated by each caller it passes through, so the trail of calls is
// recoverable from the final error.
type Error interface {
	error
	//Kind returns the classification of the error.
	Kind() Kind
	//Decorate adds the given string to the decoration trail, if it is
	//not empty, and returns the current trail.
	Decorate(string) []string
}

// CError is the concrete error type of the root package. Subpackages
// declare their own, equivalent types; all of them fulfill Error.
type CError struct {
	kind     Kind
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
}

func (err *CError) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("biofiles %s error: %s", err.kind, err.message)
	}
	return fmt.Sprintf("biofiles %s error in %s: %s", err.kind, err.filename, err.message)
}

// Kind returns the classification of the error.
func (err *CError) Kind() Kind { return err.kind }

// Decorate adds new information to the error.
func (err *CError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// errDecorate asserts that the error implements Error and decorates it
// with the caller's name before returning it. Calling it on any other
// error is a programming mistake and panics.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

// ErrorKind returns the Kind of err if err comes from this library, and
// zero otherwise. It spares callers the type assertion.
func ErrorKind(err error) Kind {
	if e, ok := err.(Error); ok {
		return e.Kind()
	}
	return 0
}

// Common message fragments.
const (
	UnableToOpen   = "unable to open file"
	WrongFormat    = "wrong format"
	NotEnough      = "not enough fields"
	EmptyPayload   = "nothing to write"
	UnexpectedEOF  = "input ended mid-record"
	UnknownElement = "unknown element symbol"
)
