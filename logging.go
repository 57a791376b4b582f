package l10n

import (
	"github.com/rs/zerolog"
)

// Logger is the logger used by package l10n and the default logger of new
// stores. It discards everything until the application installs one, for
// example:
//
//	l10n.Logger = log.With().Str("sys", "l10n").Logger()
var Logger = zerolog.Nop()
