// Copyright 2026 The filter-branching-check-fork Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/christian-fr/filter-branching-check-fork/internal/check"
)

// errReportFailed is returned by a subcommand's RunE to request a non-zero
// exit status for a diagnosed (not crashed) run; its message is empty
// because the report itself, already printed to stdout, is the diagnostic.
var errReportFailed = errors.New("")

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <questionnaire.xml>",
		Short: "verify soundness and reachability of a questionnaire",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool(flagVerbose)
	format, _ := cmd.Flags().GetString(flagFormat)

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "fbcheck: loading %s\n", args[0])
	}

	report, err := check.Check(context.Background(), args[0])
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "fbcheck: %d diagnostic(s)\n", len(report.Errors))
	}

	if err := writeReport(cmd.OutOrStdout(), report, format); err != nil {
		return err
	}

	if !report.OK {
		return errReportFailed
	}
	return nil
}

func writeReport(w io.Writer, report *check.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(report)
	default:
		return writeText(w, report)
	}
}

func writeText(w io.Writer, report *check.Report) error {
	if report.OK {
		fmt.Fprintf(w, "OK (run %s)\n", report.RunID)
		return nil
	}
	fmt.Fprintf(w, "FAILED (run %s): %d diagnostic(s)\n", report.RunID, len(report.Errors))
	for _, e := range report.Errors {
		fmt.Fprintf(w, "  [%s] %s\n", e.Kind, e.Message)
	}
	return nil
}
