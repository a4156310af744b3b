// Package config loads isomorphism declaration files.
//
// A declaration file is YAML:
//
//	version: "1"
//	package: temperature
//	output: isomorphic_gen.go
//	style: functions        # or methods
//	assert_size: false
//	ref:
//	  - Celsius = float64
//	  - decl: Wrapper[T] => T where T any
//	    name: Unwrap
//	mut: AsMut[float64] for Kelvin
//	transmute:
//	  - From[Celsius] for float64
//
// Each capability key takes a single entry or a list. An entry is either the
// declaration text or a mapping with "decl" and an optional function "name".
package config
