package osc

import (
	"sync"

	"github.com/rs/zerolog"
)

// MaxPacketSize is the largest datagram the server reads. It is the maximum
// UDP payload over IPv4.
const MaxPacketSize = 65507

////
// Utility and helper functions
////
var (
	bPool = sync.Pool{
		New: func() interface{} {
			b := make([]byte, MaxPacketSize)
			return &b
		},
	}

	nopLogger = zerolog.Nop()
)

// loggerOrNop returns l, or a logger that discards everything if l is nil.
func loggerOrNop(l *zerolog.Logger) *zerolog.Logger {
	if l == nil {
		return &nopLogger
	}
	return l
}
