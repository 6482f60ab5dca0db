package service

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTradeNotFound   = errors.New("trade not found")
	ErrJournalNotFound = errors.New("journal not found")
	ErrImportNotFound  = errors.New("import not found")
	// ErrDuplicateTrade is returned by a sink when the trade already exists.
	ErrDuplicateTrade = errors.New("duplicate trade")
	// ErrPartialImport wraps the sink failures of an import that saved what
	// it could.
	ErrPartialImport = errors.New("import finished with failures")
)
