package aifeels

import (
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
)

// Version of the reference implementation.
const Version = "1.0.0"

// Info identifies the reference implementation in reports.
var Info = subject.Info{
	Name:     "aifeels-go",
	Version:  Version,
	Language: "Go",
	License:  "Apache-2.0",
}

// Factory creates a fresh reference subject.
func Factory() (subject.Subject, error) {
	return New(), nil
}

// Register adds the reference implementation to a registry.
func Register(r subject.Registry) error {
	return r.Register(Info, Factory)
}
