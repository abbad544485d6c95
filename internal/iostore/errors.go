package iostore

import (
	"fmt"
	"runtime"

	"github.com/avharvest/avharvest/pkg/errcode"
	"github.com/avharvest/avharvest/pkg/record"
	"github.com/gnames/gn"
)

func UnknownDriverError(driver string) error {
	msg := `Unknown database driver <em>%s</em>

Set <em>database.driver</em> to <em>sqlite</em> or <em>postgres</em>`
	vars := []any{driver}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBUnknownDriverError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown driver %q", fn, driver),
	}
}

func OpenError(location string, err error) error {
	msg := "Cannot open record store <em>%s</em>"
	vars := []any{location}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn, location, err),
	}
}

func MissingTableError(table string) error {
	msg := `Table <em>%s</em> does not exist

Run <em>avharvest create</em> first`
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: table %s is missing", fn, table),
	}
}

func ReadError(c record.Collection, err error) error {
	msg := "Cannot read records from <em>%s</em>"
	vars := []any{c}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn, c, err),
	}
}

func WriteError(c record.Collection, err error) error {
	msg := "Cannot write records to <em>%s</em>"
	vars := []any{c}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write %s: %w", fn, c, err),
	}
}

func DeleteError(url string, c record.Collection, err error) error {
	msg := "Cannot delete <em>%s</em> from <em>%s</em>"
	vars := []any{url, c}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreDeleteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot delete %s from %s: %w", fn, url, c, err),
	}
}
