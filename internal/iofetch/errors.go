package iofetch

import (
	"fmt"
	"runtime"

	"github.com/avharvest/avharvest/pkg/errcode"
	"github.com/gnames/gn"
)

func FetchError(url string, err error) error {
	msg := "Cannot fetch <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.HarvestFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot fetch %s: %w", fn, url, err),
	}
}
