package cardtable

import "log/slog"

// pkgLogger is nil until SetLogger is called (no locking, cardtable is
// driven from the game loop).
var pkgLogger *slog.Logger

// SetLogger replaces the logger used for load failures, deck transitions and
// debug stats. Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger = l
}

func logger() *slog.Logger {
	if pkgLogger == nil {
		return slog.Default()
	}
	return pkgLogger
}
