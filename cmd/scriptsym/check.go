package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/scriptsym/internal/diagnostics"
)

// checkCommand prints every diagnostic and fails when any is an error
func checkCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	res, err := build(c.Context, cfg)
	if err != nil {
		return err
	}

	var errs, warnings int
	for _, d := range res.diagnostics {
		fmt.Fprintln(c.App.Writer, d.String())
		switch d.Severity {
		case diagnostics.SeverityError:
			errs++
		case diagnostics.SeverityWarning:
			warnings++
		}
	}
	fmt.Fprintf(c.App.Writer, "%d records, %d errors, %d warnings\n", res.table.Len(), errs, warnings)

	if errs > 0 || (warnings > 0 && c.Bool("warnings-as-errors")) {
		return cli.Exit(fmt.Sprintf("check failed: %d errors, %d warnings", errs, warnings), 1)
	}
	return nil
}
