package deterministic

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed signals.yaml
var signalsYAML []byte

type techFingerprint struct {
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name"`
}

type signalTables struct {
	Tech struct {
		CMS       []techFingerprint `yaml:"cms"`
		Analytics []techFingerprint `yaml:"analytics"`
		Frontend  []techFingerprint `yaml:"frontend"`
		Marketing []techFingerprint `yaml:"marketing"`
	} `yaml:"tech"`
	Certifications []string `yaml:"certifications"`
	Authorities    []struct {
		Prefix    string `yaml:"prefix"`
		Authority string `yaml:"authority"`
	} `yaml:"authorities"`
}

var signals = loadSignals()

func loadSignals() signalTables {
	var t signalTables
	if err := yaml.Unmarshal(signalsYAML, &t); err != nil {
		panic(fmt.Sprintf("deterministic: embedded signals.yaml is invalid: %v", err))
	}
	return t
}
