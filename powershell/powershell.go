// Package powershell runs PowerShell commands for checks on Windows hosts,
// or anywhere PowerShell Core is installed.
package powershell

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/xuenqlve/checkkit/errors"
	"github.com/xuenqlve/checkkit/log"
)

// Binary is the PowerShell executable; set it to "pwsh" for PowerShell Core.
var Binary = "powershell"

var ErrCommand = errors.NewErrorMessage(errors.ErrCodeCommand, "powershell")

type Result struct {
	Args       []string
	ReturnCode int
	Stdout     string
	Stderr     string
}

// Run executes cmd via "-Command". A non-zero exit status is reported in
// ReturnCode, not as an error; an error means PowerShell could not be run.
func Run(ctx context.Context, cmd string) (*Result, error) {
	args := []string{Binary, "-Command", cmd}
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	log.Debugf("running %v", args)
	err := c.Run()
	result := &Result{
		Args:   args,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok || ctx.Err() != nil {
			return nil, errors.Annotatef(ErrCommand, "running %s: %v", Binary, err)
		}
		result.ReturnCode = exitErr.ExitCode()
	}
	return result, nil
}
