package config

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

type SLO struct {
	Disabled       bool          `json:"disabled"`
	Asynchronous   bool          `json:"asynchronous"`
	Timeout        time.Duration `json:"timeout"`
	Parallelism    int           `json:"parallelism"`
	AllowedDomains []string      `json:"allowed-domains"`
}

const (
	SLODisabled       = "slo.disabled"
	SLOAsynchronous   = "slo.asynchronous"
	SLOTimeout        = "slo.timeout"
	SLOParallelism    = "slo.parallelism"
	SLOAllowedDomains = "slo.allowed-domains"
)

func sloFlags() {
	flag.Bool(SLODisabled, false, "Disable all single logout callbacks; session teardown still happens locally.")
	flag.Bool(SLOAsynchronous, true, "Fire back-channel logout messages without waiting for the remote endpoint to respond.")
	flag.Duration(SLOTimeout, 5*time.Second, "Per-call timeout for synchronous back-channel logout messages.")
	flag.Int(SLOParallelism, 8, "Maximum number of services processed concurrently during logout fan-out.")
	flag.StringSlice(SLOAllowedDomains, []string{}, "Comma separated list of domains that service-provided logout URLs may point to.")
}

func (s SLO) Validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("%q must be a positive duration", SLOTimeout)
	}

	if s.Parallelism < 1 {
		return fmt.Errorf("%q must be at least 1", SLOParallelism)
	}

	return nil
}
