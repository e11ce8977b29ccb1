package admin

import "github.com/rs/zerolog"

// defaultLogger returns a silent logger, the same "quiet unless asked"
// default zerolog itself recommends for embedded libraries. NewConnection
// does not call it: a Connection logs through Config.Logger as supplied.
func defaultLogger() zerolog.Logger {
	return zerolog.Nop()
}
