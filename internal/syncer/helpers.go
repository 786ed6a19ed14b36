package syncer

import (
	"io"

	"actsync/internal"
)

func logf(w io.Writer, scope string, format string, a ...any) {
	internal.Logf(w, "", scope, format, a...)
}
