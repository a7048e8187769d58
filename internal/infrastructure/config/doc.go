// Package config provides configuration loading for the Happy Herbs appliance.
//
// Configuration is loaded from a YAML file with three layers of precedence:
//
//  1. Hardcoded defaults (stock firmware values)
//  2. YAML file values
//  3. HAPPYHERBS_* environment variables
//
// The loaded configuration is validated before use; an invalid configuration
// aborts startup rather than running the appliance with surprising values.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Thing.Name, cfg.Tasks.PumpDuration())
package config
