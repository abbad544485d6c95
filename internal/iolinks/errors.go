package iolinks

import (
	"fmt"
	"runtime"

	"github.com/avharvest/avharvest/pkg/errcode"
	"github.com/gnames/gn"
)

func LinksError(pageURL string, err error) error {
	msg := "Cannot read listing page <em>%s</em>"
	vars := []any{pageURL}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.HarvestLinksError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: listing %s: %w", fn, pageURL, err),
	}
}
