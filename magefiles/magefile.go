//go:build mage

// Package main contains Mage build targets for scitext developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "scitext"
	cmdPkg  = "./cmd/scitext"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	mg.Deps(Vet)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover writes coverage.out and prints the per-function summary.
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Bench runs the benchmarks without the unit tests.
func Bench() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint when it is installed and go vet otherwise.
func Lint() error {
	if _, err := sh.Exec(nil, nil, nil, "golangci-lint", "version"); err != nil {
		fmt.Println("golangci-lint not found, running go vet")
		return Vet()
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build and coverage artifacts.
func Clean() error {
	for _, p := range []string{binDir, "coverage.out"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
	}
	return nil
}
