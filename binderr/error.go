package binderr

import (
	"fmt"
	"log/slog"
	"strings"
)

// Errors accumulates BindError values. A nil *Errors is a valid, empty Errors.
type Errors struct {
	errs []BindError
}

func (r *Errors) With(err ...BindError) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []BindError {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	return len(r.errs) > 0
}

// Err returns nil if there are no errors, or a single error listing all of them
func (r *Errors) Err() error {
	if !r.HasError() {
		return nil
	}
	if len(r.errs) == 1 {
		return r.errs[0]
	}
	sb := &strings.Builder{}
	sb.WriteString(fmt.Sprintf("%d errors:", len(r.errs)))
	for _, err := range r.errs {
		sb.WriteString("\n  " + FormatWithCode(err))
	}
	return fmt.Errorf("%s", sb.String())
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
