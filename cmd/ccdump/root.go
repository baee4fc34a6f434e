/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	hostColor   = color.New(color.FgGreen)
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ccdump",
		Short:        "Inspect the calling conventions of the lifter",
		Long:         `Dump the CPU state struct layout and the HHVM register mapping, or lift a sample function.`,
		SilenceUsage: true,
	}

	root.AddCommand(getCmdLayout(), getCmdHHVM(), getCmdDemo())
	return root
}
