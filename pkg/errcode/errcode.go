package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBNotConnectedError
	DBDropTableError
	DBUnknownDriverError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError

	// Store errors
	StoreOpenError
	StoreReadError
	StoreWriteError
	StoreDeleteError

	// Tag vocabulary errors
	TagsReadError
	TagsDecodeError

	// Harvest errors
	HarvestCancelledError
	HarvestLinksError
	HarvestExtractFailedError
	HarvestFetchError
)
