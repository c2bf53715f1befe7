// Copyright 2025 The webwalk Authors
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

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/grazehq/webwalk/internal/store"
)

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run-id]",
		Short: "Delete a saved crawl run",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	st, err := store.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	run, err := st.GetRun(uint(id))
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", id)
	}
	if err := st.DeleteRun(uint(id)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted run %d (%s)\n", id, run.SeedURL)
	return nil
}
