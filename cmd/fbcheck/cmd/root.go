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

// Package cmd builds the fbcheck command tree: one constructor per
// subcommand, global flags registered on the root command.
package cmd

import (
	"github.com/spf13/cobra"
)

// flag names shared across subcommands.
const (
	flagFormat  = "format"
	flagVerbose = "v"
)

// New builds the root fbcheck command with the check and graph subcommands
// attached.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "fbcheck",
		Short:         "statically verify reachability of a branching questionnaire",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP(flagFormat, "", "text", "report format: text|json|yaml")
	root.PersistentFlags().BoolP(flagVerbose, flagVerbose, false, "print the input path and diagnostic count to stderr")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newGraphCmd())
	return root
}
