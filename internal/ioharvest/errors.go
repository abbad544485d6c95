package ioharvest

import (
	"fmt"
	"runtime"

	"github.com/avharvest/avharvest/pkg/errcode"
	"github.com/gnames/gn"
)

// CancelledError is returned when the cycle stops on a cancelled
// context. Records processed before that stay in the store.
func CancelledError(err error) error {
	msg := `Update was interrupted

Records processed so far are saved, run <em>avharvest update</em> again`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.HarvestCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cancelled: %w", fn, err),
	}
}

// ExtractFailedError reports a page that gives no record.
func ExtractFailedError(url string) error {
	msg := `Cannot extract a record from <em>%s</em>

The URL has no item code, the page is not reachable
or it has no view counter`
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.HarvestExtractFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: extraction failed for %s", fn, url),
	}
}
