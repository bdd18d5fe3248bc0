package chromat

import (
	"fmt"

	biofiles "github.com/rmera/biofiles"
)

const KMalformedRecord = biofiles.KMalformedRecord

//errDecorate asserts that the error implements biofiles.Error and
//decorates it with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2 := err.(biofiles.Error)
	err2.Decorate(caller)
	return err2
}

//Error is the error type for chromatogram drawing. It fulfills
//biofiles.Error.
type Error struct {
	kind     biofiles.Kind
	message  string
	filename string
	deco     []string
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("chromat %s error: %s", err.kind, err.message)
	}
	return fmt.Sprintf("chromat %s error in %s: %s", err.kind, err.filename, err.message)
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

const (
	EmptyPayload = "nothing to draw"
)
