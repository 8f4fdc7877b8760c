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

// Command fbcheck statically verifies the branching logic of a zofar
// questionnaire: soundness of every page's outbound guards, and
// completeness of every reachable terminal page.
package main

import (
	"fmt"
	"os"

	"github.com/christian-fr/filter-branching-check-fork/cmd/fbcheck/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}
