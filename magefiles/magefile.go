//go:build mage

// Package main provides build targets for taskflow using Mage.
//
// Usage:
//
//	mage build        Compile taskflow-server and taskflow to bin/
//	mage test         Run all tests
//	mage vet          Run go vet
//	mage lint         Run golangci-lint
//	mage clean        Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo     = "go"
	binLint   = "golangci-lint"
	binaryDir = "bin"
)

var binaries = map[string]string{
	"taskflow-server": "./cmd/server",
	"taskflow":        "./cmd/taskflow",
}

// Default target when mage runs without arguments.
var Default = Build

// Build compiles both binaries to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	for name, pkg := range binaries {
		if err := sh.RunV(binGo, "build", "-o", filepath.Join(binaryDir, name), pkg); err != nil {
			return err
		}
	}
	return nil
}

// Test runs every package's tests with the race detector.
func Test() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
