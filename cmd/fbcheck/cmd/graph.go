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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/christian-fr/filter-branching-check-fork/internal/check"
	"github.com/christian-fr/filter-branching-check-fork/internal/render"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <questionnaire.xml>",
		Short: "check a questionnaire and emit its page graph as GraphViz DOT",
		Args:  cobra.ExactArgs(1),
		RunE:  runGraph,
	}
	cmd.Flags().String("graph", "", "write DOT output to this path instead of stdout")
	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	report, err := check.Check(context.Background(), args[0])
	if err != nil {
		return err
	}
	if report.Graph == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "fbcheck: no graph produced: %d diagnostic(s)\n", len(report.Errors))
		return errReportFailed
	}

	out := cmd.OutOrStdout()
	path, _ := cmd.Flags().GetString("graph")
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := render.WriteDOT(out, report.Graph); err != nil {
		return err
	}
	if !report.OK {
		return errReportFailed
	}
	return nil
}
