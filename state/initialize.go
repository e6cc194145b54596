package state

import (
	"time"

	"atomcss/atom"
	"atomcss/reload"
)

func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Engines: reload.New[*atom.Engine](),
		start:   time.Now(),
	}
}
