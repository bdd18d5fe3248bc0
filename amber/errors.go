package amber

import (
	"fmt"

	biofiles "github.com/rmera/biofiles"
)

//The error kinds, re-exported so call sites in this package stay short.
const (
	KTruncatedInput  = biofiles.KTruncatedInput
	KMalformedRecord = biofiles.KMalformedRecord
	KInvalidHeader   = biofiles.KInvalidHeader
)

//errDecorate asserts that the error implements biofiles.Error and
//decorates it with the caller's name before returning it. Using it on
//any other error is a programming mistake and panics.
func errDecorate(err error, caller string) error {
	err2 := err.(biofiles.Error)
	err2.Decorate(caller)
	return err2
}

//Error is the error type for parameter-file problems. It fulfills
//biofiles.Error.
type Error struct {
	kind     biofiles.Kind
	message  string
	filename string //the file with problems, or empty if none
	line     int    //1-based line of the problem, or 0
	deco     []string
}

func (err *Error) Error() string {
	where := ""
	if err.filename != "" {
		where = " in " + err.filename
	}
	if err.line > 0 {
		where = fmt.Sprintf("%s, line %d", where, err.line)
	}
	return fmt.Sprintf("amber %s error%s: %s", err.kind, where, err.message)
}

//Kind returns the classification of the error.
func (err *Error) Kind() biofiles.Kind { return err.kind }

//Decorate adds new information to the error.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Line returns the 1-based line number the error was found at, or 0
//when it doesn't belong to a line.
func (err *Error) Line() int { return err.line }

const (
	NotEnough    = "not enough fields"
	EmptyPayload = "nothing to write"
)
