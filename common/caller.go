package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// Caller returns the account on whose behalf the current invocation runs:
// the sender of the transaction that triggered the execution. The sender's
// witness is verified by the chain before the script runs, so no additional
// witness check is needed here.
func Caller() interop.Hash160 {
	return runtime.GetScriptContainer().Sender
}
