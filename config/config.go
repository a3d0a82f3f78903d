package config

import (
	"time"
)

const (
	AppName          = "raket"
	NsqChannel       = "raket"
	TopicTransaction = "raket-transaction"
)

var (
	// injected with -ldflags at build time
	Version = "0.1.0"
	Commit  = "-"
	Build   = "-"
	Now     = time.Now()
)
