package config

import (
	flag "github.com/spf13/pflag"
)

type Services struct {
	RegistryFile string `json:"registry-file"`
}

const (
	ServicesRegistryFile = "services.registry-file"
)

func servicesFlags() {
	flag.String(ServicesRegistryFile, "services.yaml", "Path to the YAML file holding the registered service definitions.")
}
