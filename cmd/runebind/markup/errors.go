package markup

import "errors"

var (
	ErrIndentation       = errors.New("indentation error: no ancestor context found")
	ErrMissingPage       = errors.New("no top-level 'page:' section defined")
	ErrInvalidDefinition = errors.New("invalid element definition")
	ErrInvalidTag        = errors.New("invalid tag name")
	ErrComponentCycle    = errors.New("component cycle detected")
	ErrHandlerRejected   = errors.New("event handler rejected")
)
